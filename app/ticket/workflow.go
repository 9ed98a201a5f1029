package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pvb-community/pvb-bot/app/events"
	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/app/shared/errs"
	"github.com/pvb-community/pvb-bot/helpers"
)

// DefaultContainerName is the category all ticket channels live under.
const DefaultContainerName = "tickets"

// countdownSeconds is the visible close countdown: one status message
// updated once per second before the channel is destroyed.
const countdownSeconds = 10

// Workflow owns the ticket lifecycle. At most one non-closed ticket per
// owner exists at any time; closing runs a per-ticket countdown that never
// blocks other tickets.
type Workflow struct {
	mu      sync.Mutex
	tickets map[string]*ticket // keyed by channel ID
	welcome map[Type]string
	panelMu map[string]*sync.Mutex // per-channel ensure-then-create guard

	containerName string
	channels      Channels
	clock         clock.Clock
	bus           events.EventBus
	logger        *slog.Logger
}

// NewWorkflow creates a Workflow with the default welcome messages.
func NewWorkflow(channels Channels, clk clock.Clock, bus events.EventBus, logger *slog.Logger) *Workflow {
	return &Workflow{
		tickets:       make(map[string]*ticket),
		welcome:       defaultWelcomeMessages(),
		panelMu:       make(map[string]*sync.Mutex),
		containerName: DefaultContainerName,
		channels:      channels,
		clock:         clk,
		bus:           bus,
		logger:        logger,
	}
}

// EnsurePanel places or refreshes the ticket panel in channelID. The scan
// for an existing panel and the post run under a per-channel mutex so
// concurrent calls cannot produce two panels.
func (w *Workflow) EnsurePanel(ctx context.Context, channelID string) error {
	mu := w.panelLock(channelID)
	mu.Lock()
	defer mu.Unlock()

	messages, err := w.channels.RecentMessages(channelID, 100)
	if err != nil {
		return errs.Collaborator("scanning channel history for panel", err)
	}

	embed := panelEmbed()
	components := PanelComponents()

	for _, msg := range messages {
		for _, existing := range msg.Embeds {
			if strings.Contains(existing.Title, panelTitleMarker) {
				if err := w.channels.EditEmbed(channelID, msg.ID, embed, components); err != nil {
					return errs.Collaborator("updating ticket panel", err)
				}
				w.logger.Info("ticket panel updated in place", slog.String("channel_id", channelID))
				return nil
			}
		}
	}

	if _, err := w.channels.PostEmbed(channelID, embed, components); err != nil {
		return errs.Collaborator("posting ticket panel", err)
	}
	w.logger.Info("ticket panel posted", slog.String("channel_id", channelID))
	return nil
}

// Open creates a ticket channel for ownerID. It fails with AlreadyOpen if
// the owner already has a non-closed ticket.
func (w *Workflow) Open(ctx context.Context, ownerID string, typ Type, ownerName string) (string, error) {
	w.mu.Lock()
	for _, t := range w.tickets {
		if t.ownerID == ownerID && !t.closed {
			existing := t.channelID
			w.mu.Unlock()
			return "", errs.AlreadyOpen("you already have an open ticket: <#%s>", existing)
		}
	}
	w.mu.Unlock()

	containerID, err := w.channels.EnsureContainer(w.containerName)
	if err != nil {
		return "", errs.Collaborator("ensuring ticket container", err)
	}

	name := channelName(typ, ownerName)
	topic := fmt.Sprintf("%s for %s | Created at %s",
		typ.Label(), ownerName, w.clock.Now().UTC().Format("2006-01-02 15:04"))
	channelID, err := w.channels.CreateRestrictedChannel(containerID, name, topic, ownerID)
	if err != nil {
		return "", errs.Collaborator("creating ticket channel", err)
	}

	t := &ticket{
		channelID:   channelID,
		channelName: name,
		ownerID:     ownerID,
		typ:         typ,
		createdAt:   w.clock.Now(),
	}
	w.mu.Lock()
	w.tickets[channelID] = t
	welcome, ok := w.welcome[typ]
	w.mu.Unlock()
	if !ok {
		welcome = fallbackWelcomeMessage
	}

	if _, err := w.channels.PostEmbed(channelID, welcomeEmbed(typ, ownerID, ownerName, welcome, w.clock.Now()), CloseComponents()); err != nil {
		w.logger.Warn("failed to post ticket welcome message",
			slog.String("channel_id", channelID), slog.Any("error", err))
	}

	w.publish(events.TicketCreatedTopic, events.TicketCreatedPayload{
		ChannelID: channelID,
		OwnerID:   ownerID,
		Type:      string(typ),
		Label:     typ.Label(),
	})

	w.logger.Info("ticket opened",
		slog.String("channel_id", channelID),
		slog.String("owner_id", ownerID),
		slog.String("type", string(typ)))
	return channelID, nil
}

// Close flips the ticket to closed and starts the destruction countdown on
// its own goroutine. Unknown channels and already-closed tickets are
// rejected; the flag flips before any suspending work so a racing second
// close always sees AlreadyClosed.
func (w *Workflow) Close(ctx context.Context, channelID, requesterID string) error {
	w.mu.Lock()
	t, ok := w.tickets[channelID]
	if !ok {
		w.mu.Unlock()
		return errs.NotFound("this channel is not a valid ticket")
	}
	if t.closed {
		w.mu.Unlock()
		return errs.AlreadyClosed("this ticket is already closed")
	}
	t.closed = true
	snap := t.snapshot()
	w.mu.Unlock()

	go w.runClose(ctx, snap, requesterID)
	return nil
}

// runClose performs the countdown and destroys the channel. Every side
// effect is best-effort and logged on its own; the record is discarded at
// the end regardless.
func (w *Workflow) runClose(ctx context.Context, snap Snapshot, requesterID string) {
	msgID, err := w.channels.PostMessage(snap.ChannelID,
		fmt.Sprintf("🔒 **Closing this ticket in %d seconds...**", countdownSeconds))
	if err != nil {
		w.logger.Warn("failed to post close countdown",
			slog.String("channel_id", snap.ChannelID), slog.Any("error", err))
	}

	for i := countdownSeconds - 1; i > 0; i-- {
		if err := w.clock.Sleep(ctx, time.Second); err != nil {
			break
		}
		if msgID == "" {
			continue
		}
		if err := w.channels.EditMessage(snap.ChannelID, msgID,
			fmt.Sprintf("🔒 **Closing this ticket in %d seconds...**", i)); err != nil {
			w.logger.Warn("failed to update close countdown",
				slog.String("channel_id", snap.ChannelID), slog.Any("error", err))
		}
	}
	if msgID != "" {
		if err := w.channels.EditMessage(snap.ChannelID, msgID, "🔒 **Closing now...**"); err != nil {
			w.logger.Warn("failed to update close countdown",
				slog.String("channel_id", snap.ChannelID), slog.Any("error", err))
		}
	}

	w.publish(events.TicketClosedTopic, events.TicketClosedPayload{
		ChannelID:   snap.ChannelID,
		ChannelName: snap.ChannelName,
		OwnerID:     snap.OwnerID,
		Type:        string(snap.Type),
		ClosedBy:    requesterID,
		OpenFor:     helpers.FormatElapsed(w.clock.Now().Sub(snap.CreatedAt)),
	})

	if err := w.channels.DirectMessage(snap.OwnerID, closedDMEmbed(snap, requesterID)); err != nil {
		w.logger.Warn("failed to DM ticket owner about closure",
			slog.String("owner_id", snap.OwnerID), slog.Any("error", err))
	}

	if err := w.channels.DeleteChannel(snap.ChannelID); err != nil {
		w.logger.Error("failed to delete ticket channel",
			slog.String("channel_id", snap.ChannelID), slog.Any("error", err))
	}

	w.mu.Lock()
	delete(w.tickets, snap.ChannelID)
	w.mu.Unlock()

	w.logger.Info("ticket closed",
		slog.String("channel_id", snap.ChannelID),
		slog.String("closed_by", requesterID))
}

// SetContainerName overrides the category ticket channels live under.
// Call before the first Open or EnsurePanel.
func (w *Workflow) SetContainerName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if name != "" {
		w.containerName = name
	}
}

// SetWelcomeMessage overwrites the welcome text for a ticket type. Only
// future tickets are affected.
func (w *Workflow) SetWelcomeMessage(typ Type, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.welcome[typ] = text
}

// Lookup returns a snapshot of the ticket tracked for channelID.
func (w *Workflow) Lookup(channelID string) (Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.tickets[channelID]
	if !ok {
		return Snapshot{}, false
	}
	return t.snapshot(), true
}

func (w *Workflow) publish(topic string, payload interface{}) {
	if err := w.bus.Publish(topic, payload); err != nil {
		w.logger.Warn("failed to publish ticket event",
			slog.String("topic", topic), slog.Any("error", err))
	}
}

func (w *Workflow) panelLock(channelID string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	mu, ok := w.panelMu[channelID]
	if !ok {
		mu = &sync.Mutex{}
		w.panelMu[channelID] = mu
	}
	return mu
}

func channelName(typ Type, ownerName string) string {
	name := strings.ToLower(fmt.Sprintf("%s-%s", typ, ownerName))
	return strings.ReplaceAll(name, " ", "-")
}
