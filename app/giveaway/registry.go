package giveaway

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pvb-community/pvb-bot/app/events"
	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/app/shared/errs"
	"github.com/pvb-community/pvb-bot/app/shared/random"
	"github.com/pvb-community/pvb-bot/helpers"
)

// Registry owns the giveaway lifecycle: creation, participant accrual,
// ending, reroll and host reassignment. It is a process-wide singleton;
// all state is in memory and lost on restart.
type Registry struct {
	mu        sync.Mutex
	nextID    int64
	giveaways map[int64]*giveaway

	clock     clock.Clock
	announcer Announcer
	reactors  ReactionEnumerator
	bus       events.EventBus
	logger    *slog.Logger
}

// NewRegistry creates a Registry. reactors may be nil, in which case the
// participant set is whatever RecordParticipant accrued.
func NewRegistry(clk clock.Clock, announcer Announcer, reactors ReactionEnumerator, bus events.EventBus, logger *slog.Logger) *Registry {
	return &Registry{
		nextID:    1,
		giveaways: make(map[int64]*giveaway),
		clock:     clk,
		announcer: announcer,
		reactors:  reactors,
		bus:       bus,
		logger:    logger,
	}
}

// CreateParams carries the arguments of a create request.
type CreateParams struct {
	Prize        string
	DurationSpec string
	WinnerCount  int
	HostID       string
	CreatorID    string
	ChannelID    string
	ImageURL     string
}

// Create validates the request, posts the announcement embed, stores the
// record and schedules the automatic end. The scheduled end runs on its
// own goroutine and never blocks the caller.
func (r *Registry) Create(ctx context.Context, p CreateParams) (int64, error) {
	if p.WinnerCount < 1 {
		return 0, errs.InvalidArgument("winners must be at least 1")
	}
	duration, err := helpers.ParseDuration(p.DurationSpec)
	if err != nil {
		return 0, err
	}

	endTime := r.clock.Now().Add(duration)

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.mu.Unlock()

	g := &giveaway{
		id:             id,
		channelID:      p.ChannelID,
		prize:          p.Prize,
		winnerCount:    p.WinnerCount,
		endTime:        endTime,
		hostID:         p.HostID,
		imageURL:       p.ImageURL,
		participantSet: make(map[string]struct{}),
	}

	messageID, err := r.announcer.PostAnnouncement(p.ChannelID, runningEmbed(g.snapshot()))
	if err != nil {
		return 0, errs.Collaborator("posting giveaway announcement", err)
	}
	g.messageID = messageID

	if err := r.announcer.AddReaction(p.ChannelID, messageID, EntryEmoji); err != nil {
		r.logger.Warn("failed to add entry reaction",
			slog.Int64("giveaway_id", id), slog.Any("error", err))
	}

	r.mu.Lock()
	r.giveaways[id] = g
	r.mu.Unlock()

	r.clock.AfterFunc(duration, func() {
		if err := r.End(context.Background(), id); err != nil {
			r.logger.Error("scheduled giveaway end failed",
				slog.Int64("giveaway_id", id), slog.Any("error", err))
		}
	})

	r.publish(events.GiveawayCreatedTopic, events.GiveawayCreatedPayload{
		GiveawayID:  id,
		Prize:       p.Prize,
		WinnerCount: p.WinnerCount,
		Duration:    p.DurationSpec,
		EndUnix:     endTime.Unix(),
		HostID:      p.HostID,
		CreatorID:   p.CreatorID,
		ChannelID:   p.ChannelID,
	})

	r.logger.Info("giveaway created",
		slog.Int64("giveaway_id", id),
		slog.String("prize", p.Prize),
		slog.Int("winners", p.WinnerCount),
		slog.Time("end_time", endTime))
	return id, nil
}

// RecordParticipant adds userID to the participant set. Unknown giveaways,
// ended giveaways and duplicate entries are silent no-ops.
func (r *Registry) RecordParticipant(giveawayID int64, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.giveaways[giveawayID]
	if !ok || g.ended {
		return
	}
	if _, seen := g.participantSet[userID]; seen {
		return
	}
	g.participantSet[userID] = struct{}{}
	g.participants = append(g.participants, userID)
}

// GiveawayForMessage resolves the giveaway hosted on the given message,
// for reaction-event routing.
func (r *Registry) GiveawayForMessage(channelID, messageID string) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.giveaways {
		if g.channelID == channelID && g.messageID == messageID {
			return id, true
		}
	}
	return 0, false
}

// End finishes the giveaway and selects winners exactly once. It is
// idempotent: unknown or already-ended giveaways are pure no-ops. The
// ended flag flips before any rendering so a concurrent duplicate trigger
// (early end racing the scheduled end) cannot double-announce.
func (r *Registry) End(ctx context.Context, giveawayID int64) error {
	r.mu.Lock()
	g, ok := r.giveaways[giveawayID]
	if !ok || g.ended {
		r.mu.Unlock()
		return nil
	}
	g.ended = true

	// Pull-enumeration refreshes the set from live reactions when a source
	// is wired; the accrued set stands if enumeration fails.
	if r.reactors != nil {
		channelID, messageID := g.channelID, g.messageID
		r.mu.Unlock()
		reactors, err := r.reactors.EnumerateReactors(channelID, messageID, EntryEmoji)
		r.mu.Lock()
		if err != nil {
			r.logger.Warn("failed to enumerate giveaway reactors",
				slog.Int64("giveaway_id", giveawayID), slog.Any("error", err))
		} else {
			g.participants = g.participants[:0]
			g.participantSet = make(map[string]struct{}, len(reactors))
			for _, userID := range reactors {
				if _, seen := g.participantSet[userID]; seen {
					continue
				}
				g.participantSet[userID] = struct{}{}
				g.participants = append(g.participants, userID)
			}
		}
	}
	snap := g.snapshot()
	r.mu.Unlock()

	winners, err := random.Sample(snap.Participants, snap.WinnerCount)
	if err != nil {
		r.logger.Error("winner selection failed",
			slog.Int64("giveaway_id", giveawayID), slog.Any("error", err))
		winners = nil
	}

	r.mu.Lock()
	g.winners = winners
	r.mu.Unlock()
	snap.Winners = winners

	r.announceEnd(snap, winners)

	r.publish(events.GiveawayEndedTopic, events.GiveawayEndedPayload{
		GiveawayID:       snap.ID,
		Prize:            snap.Prize,
		HostID:           snap.HostID,
		WinnerIDs:        winners,
		ParticipantCount: len(snap.Participants),
		ImageURL:         snap.ImageURL,
	})

	r.logger.Info("giveaway ended",
		slog.Int64("giveaway_id", giveawayID),
		slog.Int("participants", len(snap.Participants)),
		slog.Int("winners", len(winners)))
	return nil
}

// EndEarly ends the giveaway before its scheduled time. Authorization is
// the dispatch layer's concern; the only difference from End is that an
// unknown id is reported so the requester gets a useful reply.
func (r *Registry) EndEarly(ctx context.Context, giveawayID int64, requesterID string) error {
	r.mu.Lock()
	_, ok := r.giveaways[giveawayID]
	r.mu.Unlock()
	if !ok {
		return errs.NotFound("giveaway %d not found", giveawayID)
	}
	return r.End(ctx, giveawayID)
}

// Reroll draws winnerCount fresh winners from the participant set frozen
// at end time. The stored set is never mutated; repeated rerolls may
// overlap earlier draws.
func (r *Registry) Reroll(ctx context.Context, giveawayID int64, winnerCount int) ([]string, error) {
	if winnerCount < 1 {
		return nil, errs.InvalidArgument("winners must be at least 1")
	}

	r.mu.Lock()
	g, ok := r.giveaways[giveawayID]
	if !ok {
		r.mu.Unlock()
		return nil, errs.NotFound("giveaway %d not found", giveawayID)
	}
	if !g.ended {
		r.mu.Unlock()
		return nil, errs.NotEnded("giveaway %d has not ended yet", giveawayID)
	}
	if len(g.participants) == 0 {
		r.mu.Unlock()
		return nil, errs.NoParticipants("giveaway %d has no participants to reroll from", giveawayID)
	}
	snap := g.snapshot()
	r.mu.Unlock()

	winners, err := random.Sample(snap.Participants, winnerCount)
	if err != nil {
		return nil, errs.Collaborator("selecting reroll winners", err)
	}

	r.publish(events.GiveawayRerolledTopic, events.GiveawayRerolledPayload{
		GiveawayID: snap.ID,
		Prize:      snap.Prize,
		HostID:     snap.HostID,
		WinnerIDs:  winners,
	})
	return winners, nil
}

// SetHost replaces the stored host identity and patches the announcement.
// The host-or-admin requirement is checked by the caller; the registry
// only applies the change.
func (r *Registry) SetHost(ctx context.Context, giveawayID int64, newHostID, requesterID string) error {
	r.mu.Lock()
	g, ok := r.giveaways[giveawayID]
	if !ok {
		r.mu.Unlock()
		return errs.NotFound("giveaway %d not found", giveawayID)
	}
	oldHostID := g.hostID
	g.hostID = newHostID
	snap := g.snapshot()
	r.mu.Unlock()

	embed := runningEmbed(snap)
	if snap.Ended {
		if len(snap.Participants) == 0 {
			embed = noParticipantsEmbed(snap)
		} else {
			embed = endedEmbed(snap, snap.Winners)
		}
	}
	if err := r.announcer.UpdateAnnouncement(snap.ChannelID, snap.MessageID, embed); err != nil {
		r.logger.Warn("failed to patch giveaway announcement after host change",
			slog.Int64("giveaway_id", giveawayID), slog.Any("error", err))
	}

	r.publish(events.GiveawayHostChangedTopic, events.GiveawayHostChangedPayload{
		GiveawayID: snap.ID,
		Prize:      snap.Prize,
		OldHostID:  oldHostID,
		NewHostID:  newHostID,
		ChangedBy:  requesterID,
	})
	return nil
}

// Lookup returns a snapshot of the giveaway, tracked or not.
func (r *Registry) Lookup(giveawayID int64) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.giveaways[giveawayID]
	if !ok {
		return Snapshot{}, false
	}
	return g.snapshot(), true
}

// List returns every non-ended giveaway with remaining time computed
// against the clock now.
func (r *Registry) List() []Active {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var active []Active
	for _, g := range r.giveaways {
		if g.ended {
			continue
		}
		remaining := g.endTime.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		active = append(active, Active{
			ID:          g.id,
			Prize:       g.prize,
			WinnerCount: g.winnerCount,
			HostID:      g.hostID,
			EndTime:     g.endTime,
			Remaining:   remaining,
		})
	}
	return active
}

// announceEnd patches the announcement embed and posts the result message.
// Each side effect fails independently; none of them roll back the end.
func (r *Registry) announceEnd(snap Snapshot, winners []string) {
	if len(snap.Participants) == 0 {
		if err := r.announcer.UpdateAnnouncement(snap.ChannelID, snap.MessageID, noParticipantsEmbed(snap)); err != nil {
			r.logger.Warn("failed to patch ended giveaway embed",
				slog.Int64("giveaway_id", snap.ID), slog.Any("error", err))
		}
		if err := r.announcer.SendMessage(snap.ChannelID, noParticipantsMessage(snap)); err != nil {
			r.logger.Warn("failed to send giveaway result message",
				slog.Int64("giveaway_id", snap.ID), slog.Any("error", err))
		}
		return
	}

	if err := r.announcer.UpdateAnnouncement(snap.ChannelID, snap.MessageID, endedEmbed(snap, winners)); err != nil {
		r.logger.Warn("failed to patch ended giveaway embed",
			slog.Int64("giveaway_id", snap.ID), slog.Any("error", err))
	}
	if err := r.announcer.SendMessage(snap.ChannelID, winnersMessage(snap, winners)); err != nil {
		r.logger.Warn("failed to send giveaway result message",
			slog.Int64("giveaway_id", snap.ID), slog.Any("error", err))
	}
}

func (r *Registry) publish(topic string, payload interface{}) {
	if err := r.bus.Publish(topic, payload); err != nil {
		r.logger.Warn("failed to publish giveaway event",
			slog.String("topic", topic), slog.Any("error", err))
	}
}

