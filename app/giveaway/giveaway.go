package giveaway

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// EntryEmoji is the reaction users add to enter a giveaway.
const EntryEmoji = "🎉"

// giveaway is the registry-owned record of a single drawing. All access
// goes through Registry methods; nothing outside the package holds a live
// reference.
type giveaway struct {
	id          int64
	channelID   string
	messageID   string
	prize       string
	winnerCount int
	endTime     time.Time
	hostID      string
	imageURL    string

	participants   []string
	participantSet map[string]struct{}
	winners        []string
	ended          bool
}

// Snapshot is a read-only copy of a giveaway's state.
type Snapshot struct {
	ID           int64
	ChannelID    string
	MessageID    string
	Prize        string
	WinnerCount  int
	EndTime      time.Time
	HostID       string
	ImageURL     string
	Participants []string
	Winners      []string
	Ended        bool
}

// Active is the List projection of a running giveaway. Remaining is
// computed against the clock at call time, not stored.
type Active struct {
	ID          int64
	Prize       string
	WinnerCount int
	HostID      string
	EndTime     time.Time
	Remaining   time.Duration
}

// Announcer is the rendering collaborator. Implementations post and patch
// the hosting announcement message; failures surface as plain errors that
// the registry logs without rolling back state.
type Announcer interface {
	PostAnnouncement(channelID string, embed *discordgo.MessageEmbed) (messageID string, err error)
	UpdateAnnouncement(channelID, messageID string, embed *discordgo.MessageEmbed) error
	SendMessage(channelID, content string) error
	AddReaction(channelID, messageID, emoji string) error
}

// ReactionEnumerator is the pull-shaped participant source: it lists the
// users who reacted with emoji, excluding bot accounts. A registry with a
// nil enumerator relies purely on RecordParticipant accrual.
type ReactionEnumerator interface {
	EnumerateReactors(channelID, messageID, emoji string) ([]string, error)
}

func (g *giveaway) snapshot() Snapshot {
	participants := make([]string, len(g.participants))
	copy(participants, g.participants)
	winners := make([]string, len(g.winners))
	copy(winners, g.winners)
	return Snapshot{
		ID:           g.id,
		ChannelID:    g.channelID,
		MessageID:    g.messageID,
		Prize:        g.prize,
		WinnerCount:  g.winnerCount,
		EndTime:      g.endTime,
		HostID:       g.hostID,
		ImageURL:     g.imageURL,
		Participants: participants,
		Winners:      winners,
		Ended:        g.ended,
	}
}
