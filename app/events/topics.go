package events

// Topics consumed by the notify router. Everything here is fire-and-forget:
// a failed publish is logged by the caller and never fails the operation
// that produced it.
const (
	GiveawayCreatedTopic     = "giveaway.created"
	GiveawayEndedTopic       = "giveaway.ended"
	GiveawayRerolledTopic    = "giveaway.rerolled"
	GiveawayHostChangedTopic = "giveaway.host.changed"

	TicketCreatedTopic = "ticket.created"
	TicketClosedTopic  = "ticket.closed"

	ModerationActionTopic = "moderation.action"
)

// GiveawayCreatedPayload announces a freshly created giveaway.
type GiveawayCreatedPayload struct {
	GiveawayID  int64  `json:"giveaway_id"`
	Prize       string `json:"prize"`
	WinnerCount int    `json:"winner_count"`
	Duration    string `json:"duration"`
	EndUnix     int64  `json:"end_unix"`
	HostID      string `json:"host_id"`
	CreatorID   string `json:"creator_id"`
	ChannelID   string `json:"channel_id"`
}

// GiveawayEndedPayload announces the single successful end of a giveaway.
// WinnerIDs is empty when nobody entered.
type GiveawayEndedPayload struct {
	GiveawayID       int64    `json:"giveaway_id"`
	Prize            string   `json:"prize"`
	HostID           string   `json:"host_id"`
	WinnerIDs        []string `json:"winner_ids"`
	ParticipantCount int      `json:"participant_count"`
	ImageURL         string   `json:"image_url,omitempty"`
}

// GiveawayRerolledPayload announces a fresh winner draw after the end.
type GiveawayRerolledPayload struct {
	GiveawayID int64    `json:"giveaway_id"`
	Prize      string   `json:"prize"`
	HostID     string   `json:"host_id"`
	WinnerIDs  []string `json:"winner_ids"`
}

// GiveawayHostChangedPayload announces a host reassignment.
type GiveawayHostChangedPayload struct {
	GiveawayID int64  `json:"giveaway_id"`
	Prize      string `json:"prize"`
	OldHostID  string `json:"old_host_id"`
	NewHostID  string `json:"new_host_id"`
	ChangedBy  string `json:"changed_by"`
}

// TicketCreatedPayload announces a newly opened ticket channel.
type TicketCreatedPayload struct {
	ChannelID string `json:"channel_id"`
	OwnerID   string `json:"owner_id"`
	Type      string `json:"type"`
	Label     string `json:"label"`
}

// TicketClosedPayload announces a closed (and soon destroyed) ticket.
type TicketClosedPayload struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	OwnerID     string `json:"owner_id"`
	Type        string `json:"type"`
	ClosedBy    string `json:"closed_by"`
	OpenFor     string `json:"open_for"`
}

// ModerationActionPayload records an administrative action for the log
// channel (timeout, ban, kick, role or nickname change).
type ModerationActionPayload struct {
	Action   string `json:"action"`
	TargetID string `json:"target_id"`
	ActorID  string `json:"actor_id"`
	Reason   string `json:"reason,omitempty"`
	Detail   string `json:"detail,omitempty"`
}
