// Package timer schedules one reminder per owner.
package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/app/shared/errs"
	"github.com/pvb-community/pvb-bot/helpers"
)

// handle is one scheduled reminder. The clock timer is kept so Stop can
// cancel it before it fires.
type handle struct {
	ownerID  string
	duration time.Duration
	timer    clock.Timer
}

// Service keeps at most one live timer per owner. Starting a second timer
// for the same owner supersedes the first: the old handle is dropped from
// the registry without being cancelled, and its callback is suppressed by
// an identity check when it eventually fires.
type Service struct {
	mu     sync.Mutex
	timers map[string]*handle
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		timers: make(map[string]*handle),
		clock:  clk,
		logger: logger,
	}
}

// Start parses durationSpec (bare integer with an s/m/h/d suffix) and
// schedules onComplete to run once after it elapses. The returned duration
// is the parsed value, for the caller's acknowledgement message.
func (s *Service) Start(ownerID, durationSpec string, onComplete func()) (time.Duration, error) {
	d, err := helpers.ParseStrictDuration(durationSpec)
	if err != nil {
		return 0, err
	}

	h := &handle{ownerID: ownerID, duration: d}
	h.timer = s.clock.AfterFunc(d, func() { s.fire(h, onComplete) })

	s.mu.Lock()
	s.timers[ownerID] = h
	s.mu.Unlock()

	s.logger.Info("timer started",
		slog.String("owner_id", ownerID),
		slog.Duration("duration", d))
	return d, nil
}

// Stop cancels and removes the owner's timer. NoActiveTimer if there is
// none, or if it already fired.
func (s *Service) Stop(ownerID string) error {
	s.mu.Lock()
	h, ok := s.timers[ownerID]
	if ok {
		delete(s.timers, ownerID)
	}
	s.mu.Unlock()
	if !ok {
		return errs.NoActiveTimer("you don't have an active timer")
	}

	h.timer.Stop()
	s.logger.Info("timer stopped", slog.String("owner_id", ownerID))
	return nil
}

// Active reports whether the owner currently has a scheduled timer.
func (s *Service) Active(ownerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[ownerID]
	return ok
}

// fire runs at the handle's deadline. A handle that is no longer the
// owner's registered timer was superseded or stopped and must not act.
func (s *Service) fire(h *handle, onComplete func()) {
	s.mu.Lock()
	current, ok := s.timers[h.ownerID]
	if !ok || current != h {
		s.mu.Unlock()
		return
	}
	delete(s.timers, h.ownerID)
	s.mu.Unlock()

	s.logger.Info("timer finished",
		slog.String("owner_id", h.ownerID),
		slog.Duration("duration", h.duration))
	onComplete()
}
