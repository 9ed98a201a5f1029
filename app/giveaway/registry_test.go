package giveaway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pvb-community/pvb-bot/app/events"
	eventmocks "github.com/pvb-community/pvb-bot/app/events/mocks"
	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/app/shared/errs"
)

// fakeAnnouncer records announcement traffic. Error fields make the next
// call of that kind fail.
type fakeAnnouncer struct {
	mu        sync.Mutex
	posted    []*discordgo.MessageEmbed
	updated   []*discordgo.MessageEmbed
	sent      []string
	reactions []string

	postErr   error
	updateErr error
	sendErr   error
}

func (f *fakeAnnouncer) PostAnnouncement(channelID string, embed *discordgo.MessageEmbed) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return "", f.postErr
	}
	f.posted = append(f.posted, embed)
	return fmt.Sprintf("msg-%d", len(f.posted)), nil
}

func (f *fakeAnnouncer) UpdateAnnouncement(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, embed)
	return nil
}

func (f *fakeAnnouncer) SendMessage(channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, content)
	return nil
}

func (f *fakeAnnouncer) AddReaction(channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, emoji)
	return nil
}

func (f *fakeAnnouncer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeEnumerator struct {
	reactors []string
	err      error
}

func (f *fakeEnumerator) EnumerateReactors(channelID, messageID, emoji string) ([]string, error) {
	return f.reactors, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func anyPublishBus(t *testing.T) events.EventBus {
	t.Helper()
	ctrl := gomock.NewController(t)
	bus := eventmocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return bus
}

func validParams() CreateParams {
	return CreateParams{
		Prize:        "Discord Nitro",
		DurationSpec: "1h",
		WinnerCount:  1,
		HostID:       "host-1",
		CreatorID:    "creator-1",
		ChannelID:    "chan-1",
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{name: "zero winners", mutate: func(p *CreateParams) { p.WinnerCount = 0 }},
		{name: "negative winners", mutate: func(p *CreateParams) { p.WinnerCount = -3 }},
		{name: "unparseable duration", mutate: func(p *CreateParams) { p.DurationSpec = "abc" }},
		{name: "non-positive duration", mutate: func(p *CreateParams) { p.DurationSpec = "0m" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
			announcer := &fakeAnnouncer{}
			reg := NewRegistry(fc, announcer, nil, anyPublishBus(t), testLogger())

			p := validParams()
			tt.mutate(&p)

			_, err := reg.Create(context.Background(), p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.InvalidArgument("")), "want InvalidArgument, got %v", err)
			assert.Empty(t, announcer.posted, "no announcement on rejected create")
		})
	}
}

func TestCreateAnnouncementFailureStoresNothing(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	announcer := &fakeAnnouncer{postErr: errors.New("discord 502")}
	reg := NewRegistry(fc, announcer, nil, anyPublishBus(t), testLogger())

	_, err := reg.Create(context.Background(), validParams())
	require.Error(t, err)
	assert.True(t, errs.HasCode(err, errs.CodeCollaboratorError))
	assert.Empty(t, reg.List())
}

func TestCreateSchedulesAutomaticEnd(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	announcer := &fakeAnnouncer{}
	reg := NewRegistry(fc, announcer, nil, anyPublishBus(t), testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)
	require.Len(t, announcer.posted, 1)
	require.Equal(t, []string{EntryEmoji}, announcer.reactions)

	reg.RecordParticipant(id, "user-a")

	fc.Advance(time.Hour)

	snap, ok := reg.Lookup(id)
	require.True(t, ok)
	assert.True(t, snap.Ended)
	assert.Equal(t, []string{"user-a"}, snap.Winners)
	assert.Len(t, announcer.updated, 1, "ended embed patched in place")
	assert.Equal(t, 1, announcer.sentCount(), "one winners message")
}

func TestEndIsIdempotent(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	announcer := &fakeAnnouncer{}

	ctrl := gomock.NewController(t)
	bus := eventmocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(events.GiveawayCreatedTopic, gomock.Any()).Return(nil).Times(1)
	// The end event is the log entry: exactly one despite three triggers.
	bus.EXPECT().Publish(events.GiveawayEndedTopic, gomock.Any()).Return(nil).Times(1)

	reg := NewRegistry(fc, announcer, nil, bus, testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)
	reg.RecordParticipant(id, "user-a")

	require.NoError(t, reg.EndEarly(context.Background(), id, "admin"))
	require.NoError(t, reg.End(context.Background(), id))
	fc.Advance(time.Hour) // scheduled end fires and must no-op

	assert.Equal(t, 1, announcer.sentCount(), "exactly one winner announcement")
}

func TestEndUnknownGiveawayIsNoOp(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	reg := NewRegistry(fc, &fakeAnnouncer{}, nil, anyPublishBus(t), testLogger())

	require.NoError(t, reg.End(context.Background(), 99))
	assert.True(t, errors.Is(reg.EndEarly(context.Background(), 99, "admin"), errs.NotFound("")))
}

func TestEndWithFewerParticipantsThanWinners(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	announcer := &fakeAnnouncer{}
	reg := NewRegistry(fc, announcer, nil, anyPublishBus(t), testLogger())

	p := validParams()
	p.WinnerCount = 5
	id, err := reg.Create(context.Background(), p)
	require.NoError(t, err)

	reg.RecordParticipant(id, "user-a")
	reg.RecordParticipant(id, "user-b")

	require.NoError(t, reg.End(context.Background(), id))

	snap, _ := reg.Lookup(id)
	assert.ElementsMatch(t, []string{"user-a", "user-b"}, snap.Winners)
}

func TestEndWithNoParticipants(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	announcer := &fakeAnnouncer{}
	reg := NewRegistry(fc, announcer, nil, anyPublishBus(t), testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)
	require.NoError(t, reg.End(context.Background(), id))

	snap, _ := reg.Lookup(id)
	assert.True(t, snap.Ended)
	assert.Empty(t, snap.Winners)
	require.Len(t, announcer.updated, 1)
	assert.Contains(t, announcer.updated[0].Description, "No participants")
}

func TestRecordParticipant(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	reg := NewRegistry(fc, &fakeAnnouncer{}, nil, anyPublishBus(t), testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)

	reg.RecordParticipant(id, "user-a")
	reg.RecordParticipant(id, "user-a") // duplicate join ignored
	reg.RecordParticipant(id, "user-b")
	reg.RecordParticipant(999, "user-c") // unknown giveaway ignored

	snap, _ := reg.Lookup(id)
	assert.Equal(t, []string{"user-a", "user-b"}, snap.Participants)

	require.NoError(t, reg.End(context.Background(), id))
	reg.RecordParticipant(id, "user-late") // post-end mutation rejected

	snap, _ = reg.Lookup(id)
	assert.Equal(t, []string{"user-a", "user-b"}, snap.Participants)
}

func TestEndEnumeratesReactors(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	announcer := &fakeAnnouncer{}
	enum := &fakeEnumerator{reactors: []string{"r-1", "r-2", "r-1", "r-3"}}
	reg := NewRegistry(fc, announcer, enum, anyPublishBus(t), testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)
	reg.RecordParticipant(id, "accrued-only")

	require.NoError(t, reg.End(context.Background(), id))

	snap, _ := reg.Lookup(id)
	assert.Equal(t, []string{"r-1", "r-2", "r-3"}, snap.Participants,
		"enumerated set replaces accrual, deduplicated")
}

func TestEndKeepsAccruedSetWhenEnumerationFails(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	enum := &fakeEnumerator{err: errors.New("rate limited")}
	reg := NewRegistry(fc, &fakeAnnouncer{}, enum, anyPublishBus(t), testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)
	reg.RecordParticipant(id, "user-a")

	require.NoError(t, reg.End(context.Background(), id))

	snap, _ := reg.Lookup(id)
	assert.Equal(t, []string{"user-a"}, snap.Participants)
	assert.Equal(t, []string{"user-a"}, snap.Winners)
}

func TestReroll(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	reg := NewRegistry(fc, &fakeAnnouncer{}, nil, anyPublishBus(t), testLogger())

	p := validParams()
	p.WinnerCount = 2
	id, err := reg.Create(context.Background(), p)
	require.NoError(t, err)

	_, err = reg.Reroll(context.Background(), id, 1)
	assert.True(t, errors.Is(err, errs.NotEnded("")), "reroll before end rejected")

	pool := []string{"A", "B", "C"}
	for _, u := range pool {
		reg.RecordParticipant(id, u)
	}
	require.NoError(t, reg.End(context.Background(), id))

	for i := 0; i < 5; i++ {
		winners, err := reg.Reroll(context.Background(), id, 2)
		require.NoError(t, err)
		require.Len(t, winners, 2)
		assert.Subset(t, pool, winners)
		assert.NotEqual(t, winners[0], winners[1], "draw is without replacement")
	}

	// Stored participants remain frozen.
	snap, _ := reg.Lookup(id)
	assert.Equal(t, pool, snap.Participants)

	_, err = reg.Reroll(context.Background(), id, 0)
	assert.True(t, errors.Is(err, errs.InvalidArgument("")))
	_, err = reg.Reroll(context.Background(), 999, 1)
	assert.True(t, errors.Is(err, errs.NotFound("")))
}

func TestRerollWithNoParticipants(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	reg := NewRegistry(fc, &fakeAnnouncer{}, nil, anyPublishBus(t), testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)
	require.NoError(t, reg.End(context.Background(), id))

	_, err = reg.Reroll(context.Background(), id, 1)
	assert.True(t, errors.Is(err, errs.NoParticipants("")))
}

func TestSetHost(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	announcer := &fakeAnnouncer{}
	reg := NewRegistry(fc, announcer, nil, anyPublishBus(t), testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)

	require.NoError(t, reg.SetHost(context.Background(), id, "host-2", "admin"))
	snap, _ := reg.Lookup(id)
	assert.Equal(t, "host-2", snap.HostID)
	require.Len(t, announcer.updated, 1)
	assert.Contains(t, announcer.updated[0].Description, "<@host-2>")

	// Host reassignment is also allowed after the end.
	require.NoError(t, reg.End(context.Background(), id))
	require.NoError(t, reg.SetHost(context.Background(), id, "host-3", "admin"))
	snap, _ = reg.Lookup(id)
	assert.Equal(t, "host-3", snap.HostID)

	assert.True(t, errors.Is(reg.SetHost(context.Background(), 999, "x", "admin"), errs.NotFound("")))
}

func TestList(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	reg := NewRegistry(fc, &fakeAnnouncer{}, nil, anyPublishBus(t), testLogger())

	p := validParams()
	p.DurationSpec = "2h"
	id1, err := reg.Create(context.Background(), p)
	require.NoError(t, err)

	p2 := validParams()
	p2.Prize = "Steam Key"
	p2.DurationSpec = "30m"
	id2, err := reg.Create(context.Background(), p2)
	require.NoError(t, err)

	require.NoError(t, reg.End(context.Background(), id2))

	fc.Advance(30 * time.Minute)

	active := reg.List()
	require.Len(t, active, 1, "ended giveaways excluded")
	assert.Equal(t, id1, active[0].ID)
	assert.Equal(t, 90*time.Minute, active[0].Remaining)
}

func TestGiveawayForMessage(t *testing.T) {
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	reg := NewRegistry(fc, &fakeAnnouncer{}, nil, anyPublishBus(t), testLogger())

	id, err := reg.Create(context.Background(), validParams())
	require.NoError(t, err)
	snap, _ := reg.Lookup(id)

	got, ok := reg.GiveawayForMessage(snap.ChannelID, snap.MessageID)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = reg.GiveawayForMessage("other", "msg")
	assert.False(t, ok)
}
