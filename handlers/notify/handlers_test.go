package notifyhandlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/events"
	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/discord"
)

type logCapture struct {
	mu       sync.Mutex
	channels []string
	contents []string
	embeds   []*discordgo.MessageEmbed
}

func newCaptureSession(capture *logCapture) *discord.FakeSession {
	session := discord.NewFakeSession()
	session.ChannelMessageSendFunc = func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
		capture.mu.Lock()
		defer capture.mu.Unlock()
		capture.channels = append(capture.channels, channelID)
		capture.contents = append(capture.contents, content)
		return &discordgo.Message{ID: "log-msg"}, nil
	}
	session.ChannelMessageSendComplexFunc = func(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
		capture.mu.Lock()
		defer capture.mu.Unlock()
		capture.channels = append(capture.channels, channelID)
		if len(data.Embeds) > 0 {
			capture.embeds = append(capture.embeds, data.Embeds[0])
		}
		return &discordgo.Message{ID: "log-msg"}, nil
	}
	return session
}

func newTestHandlers(capture *logCapture, logChannelID string) (*NotifyHandlers, *clock.FakeClock) {
	fc := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &NotifyHandlers{
		Session:      newCaptureSession(capture),
		LogChannelID: logChannelID,
		Clock:        fc,
		Logger:       logger,
	}, fc
}

func eventMessage(t *testing.T, payload interface{}) *message.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return message.NewMessage("test-msg-id", raw)
}

func TestHandleGiveawayCreated(t *testing.T) {
	capture := &logCapture{}
	h, _ := newTestHandlers(capture, "log-channel")

	msg := eventMessage(t, events.GiveawayCreatedPayload{
		GiveawayID:  7,
		Prize:       "Nitro",
		WinnerCount: 2,
		Duration:    "1h",
		EndUnix:     1717246800,
		HostID:      "host-1",
		CreatorID:   "creator-1",
		ChannelID:   "chan-1",
	})
	if err := h.HandleGiveawayCreated(msg); err != nil {
		t.Fatalf("HandleGiveawayCreated() error = %v", err)
	}

	if len(capture.embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(capture.embeds))
	}
	embed := capture.embeds[0]
	if embed.Title != "🎉 Giveaway Created" {
		t.Errorf("title = %q", embed.Title)
	}
	if embed.Color != 0x00ff00 {
		t.Errorf("color = %#x", embed.Color)
	}
	for _, want := range []string{"**Prize:** Nitro", "**Winners:** 2", "<t:1717246800:F>", "<@host-1>", "<@creator-1>", "<#chan-1>", "**Giveaway ID:** 7"} {
		if !strings.Contains(embed.Description, want) {
			t.Errorf("description missing %q:\n%s", want, embed.Description)
		}
	}
	if embed.Timestamp == "" {
		t.Error("expected embed timestamp to be set")
	}
	if capture.channels[0] != "log-channel" {
		t.Errorf("sent to %q", capture.channels[0])
	}
}

func TestHandleGiveawayEnded(t *testing.T) {
	t.Run("winners selected", func(t *testing.T) {
		capture := &logCapture{}
		h, _ := newTestHandlers(capture, "log-channel")

		msg := eventMessage(t, events.GiveawayEndedPayload{
			GiveawayID:       3,
			Prize:            "Steam key",
			HostID:           "host-1",
			WinnerIDs:        []string{"w1", "w2"},
			ParticipantCount: 9,
			ImageURL:         "https://example.com/img.png",
		})
		if err := h.HandleGiveawayEnded(msg); err != nil {
			t.Fatalf("HandleGiveawayEnded() error = %v", err)
		}

		embed := capture.embeds[0]
		if embed.Title != "🎉 Giveaway Ended - Winners Selected" {
			t.Errorf("title = %q", embed.Title)
		}
		if embed.Color != 0x00ff00 {
			t.Errorf("color = %#x", embed.Color)
		}
		if !strings.Contains(embed.Description, "<@w1>, <@w2>") {
			t.Errorf("description missing winner mentions:\n%s", embed.Description)
		}
		if embed.Image == nil || embed.Image.URL != "https://example.com/img.png" {
			t.Errorf("image = %+v", embed.Image)
		}
	})

	t.Run("no participants", func(t *testing.T) {
		capture := &logCapture{}
		h, _ := newTestHandlers(capture, "log-channel")

		msg := eventMessage(t, events.GiveawayEndedPayload{
			GiveawayID: 4,
			Prize:      "Steam key",
			HostID:     "host-1",
		})
		if err := h.HandleGiveawayEnded(msg); err != nil {
			t.Fatalf("HandleGiveawayEnded() error = %v", err)
		}

		embed := capture.embeds[0]
		if embed.Title != "🎉 Giveaway Ended - No Participants" {
			t.Errorf("title = %q", embed.Title)
		}
		if embed.Color != 0xff0000 {
			t.Errorf("color = %#x", embed.Color)
		}
		if !strings.Contains(embed.Description, "❌ **No winners**") {
			t.Errorf("description missing no-winner marker:\n%s", embed.Description)
		}
	})
}

func TestHandleGiveawayRerolled(t *testing.T) {
	capture := &logCapture{}
	h, _ := newTestHandlers(capture, "log-channel")

	msg := eventMessage(t, events.GiveawayRerolledPayload{
		GiveawayID: 5,
		Prize:      "Nitro",
		HostID:     "host-1",
		WinnerIDs:  []string{"w3"},
	})
	if err := h.HandleGiveawayRerolled(msg); err != nil {
		t.Fatalf("HandleGiveawayRerolled() error = %v", err)
	}

	if len(capture.contents) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(capture.contents))
	}
	line := capture.contents[0]
	for _, want := range []string{"Giveaway Rerolled", "`Nitro`", "<@w3>", "<@host-1>"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestHandleTicketClosed(t *testing.T) {
	capture := &logCapture{}
	h, _ := newTestHandlers(capture, "log-channel")

	msg := eventMessage(t, events.TicketClosedPayload{
		ChannelID:   "tick-chan",
		ChannelName: "support-someone",
		OwnerID:     "owner-1",
		Type:        "support",
		ClosedBy:    "admin-1",
		OpenFor:     "1h 5m 0s",
	})
	if err := h.HandleTicketClosed(msg); err != nil {
		t.Fatalf("HandleTicketClosed() error = %v", err)
	}

	embed := capture.embeds[0]
	if embed.Title != "🎫 Ticket Closed" {
		t.Errorf("title = %q", embed.Title)
	}
	for _, want := range []string{"**Type:** Support Ticket", "#support-someone", "<@admin-1>", "**Duration:** 1h 5m 0s"} {
		if !strings.Contains(embed.Description, want) {
			t.Errorf("description missing %q:\n%s", want, embed.Description)
		}
	}
}

func TestHandleModerationAction(t *testing.T) {
	tests := []struct {
		name    string
		payload events.ModerationActionPayload
		wants   []string
	}{
		{
			name:    "timeout",
			payload: events.ModerationActionPayload{Action: "timeout", TargetID: "u1", ActorID: "a1", Reason: "spam", Detail: "10m"},
			wants:   []string{"⏳ **Timeout** <@u1> by <@a1> for 10m", "Reason: spam"},
		},
		{
			name:    "ban without reason",
			payload: events.ModerationActionPayload{Action: "ban", TargetID: "u1", ActorID: "a1"},
			wants:   []string{"🔨 **Banned** <@u1> by <@a1>", "Reason: No reason provided"},
		},
		{
			name:    "role add",
			payload: events.ModerationActionPayload{Action: "role_add", TargetID: "u1", ActorID: "a1", Detail: "role-9"},
			wants:   []string{"🛠️ **Role Added**", "Admin: <@a1>", "User: <@u1>", "Role: <@&role-9>"},
		},
		{
			name:    "nickname",
			payload: events.ModerationActionPayload{Action: "nickname", TargetID: "u1", ActorID: "a1", Detail: "NewName"},
			wants:   []string{"✏️ **Nickname Changed**", "New Nickname: **NewName**"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture := &logCapture{}
			h, _ := newTestHandlers(capture, "log-channel")

			if err := h.HandleModerationAction(eventMessage(t, tt.payload)); err != nil {
				t.Fatalf("HandleModerationAction() error = %v", err)
			}
			if len(capture.contents) != 1 {
				t.Fatalf("expected 1 log line, got %d", len(capture.contents))
			}
			for _, want := range tt.wants {
				if !strings.Contains(capture.contents[0], want) {
					t.Errorf("log line missing %q: %s", want, capture.contents[0])
				}
			}
		})
	}
}

func TestMissingLogChannelDropsEvent(t *testing.T) {
	capture := &logCapture{}
	h, _ := newTestHandlers(capture, "")

	msg := eventMessage(t, events.TicketCreatedPayload{ChannelID: "c", OwnerID: "o", Type: "support", Label: "Support Ticket"})
	if err := h.HandleTicketCreated(msg); err != nil {
		t.Fatalf("HandleTicketCreated() error = %v", err)
	}
	if len(capture.embeds) != 0 || len(capture.contents) != 0 {
		t.Errorf("expected nothing sent, got %d embeds, %d lines", len(capture.embeds), len(capture.contents))
	}
}

func TestSendFailureSurfacesToRouter(t *testing.T) {
	capture := &logCapture{}
	h, _ := newTestHandlers(capture, "log-channel")
	session := h.Session.(*discord.FakeSession)
	session.ChannelMessageSendComplexFunc = func(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
		return nil, errors.New("discord unavailable")
	}

	msg := eventMessage(t, events.TicketCreatedPayload{ChannelID: "c", OwnerID: "o", Type: "support", Label: "Support Ticket"})
	if err := h.HandleTicketCreated(msg); err == nil {
		t.Fatal("expected error when the log send fails")
	}
}

func TestMalformedPayloadRejected(t *testing.T) {
	capture := &logCapture{}
	h, _ := newTestHandlers(capture, "log-channel")

	msg := message.NewMessage("bad", []byte("{not json"))
	if err := h.HandleGiveawayCreated(msg); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
