// Package afk tracks user-declared away status and pings received while
// away.
package afk

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pvb-community/pvb-bot/app/shared/clock"
)

// record is one owner's away status. pings holds every mentioner in
// arrival order, repeats included.
type record struct {
	since     time.Time
	reason    string
	channelID string
	pings     []string
}

// Return is what OnMessage hands back when an AFK owner posts again.
type Return struct {
	Elapsed   time.Duration
	Reason    string
	ChannelID string
	Pings     []string
}

// Tracker holds the AFK records. Records are read-once: the owner's next
// message consumes the record and yields the accumulated ping list.
type Tracker struct {
	mu     sync.Mutex
	users  map[string]*record
	clock  clock.Clock
	logger *slog.Logger
}

func NewTracker(clk clock.Clock, logger *slog.Logger) *Tracker {
	return &Tracker{
		users:  make(map[string]*record),
		clock:  clk,
		logger: logger,
	}
}

// SetAFK marks the owner as away. An existing record is replaced outright,
// prior ping history included.
func (t *Tracker) SetAFK(ownerID, reason, channelID string) {
	t.mu.Lock()
	t.users[ownerID] = &record{
		since:     t.clock.Now(),
		reason:    reason,
		channelID: channelID,
	}
	t.mu.Unlock()

	t.logger.Info("user set AFK",
		slog.String("owner_id", ownerID),
		slog.String("reason", reason))
}

// OnMessage consumes the author's AFK record, if any, and returns the
// elapsed time and the pingers collected while away.
func (t *Tracker) OnMessage(authorID string) (Return, bool) {
	t.mu.Lock()
	rec, ok := t.users[authorID]
	if !ok {
		t.mu.Unlock()
		return Return{}, false
	}
	delete(t.users, authorID)
	elapsed := t.clock.Now().Sub(rec.since)
	t.mu.Unlock()

	t.logger.Info("user returned from AFK",
		slog.String("owner_id", authorID),
		slog.Duration("away_for", elapsed),
		slog.Int("pings", len(rec.pings)))
	return Return{
		Elapsed:   elapsed,
		Reason:    rec.reason,
		ChannelID: rec.channelID,
		Pings:     rec.pings,
	}, true
}

// OnMention appends mentionerID to the mentioned owner's ping list and
// returns the away reason so the caller can post an AFK notice. Repeated
// pings from the same user all count.
func (t *Tracker) OnMention(mentionedID, mentionerID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.users[mentionedID]
	if !ok {
		return "", false
	}
	rec.pings = append(rec.pings, mentionerID)
	return rec.reason, true
}

// IsAFK reports whether the owner currently has an AFK record.
func (t *Tracker) IsAFK(ownerID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.users[ownerID]
	return ok
}
