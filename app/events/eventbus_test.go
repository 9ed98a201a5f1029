package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus(testLogger())
	defer bus.Close()

	msgs, err := bus.Subscriber().Subscribe(context.Background(), GiveawayEndedTopic)
	require.NoError(t, err)

	payload := GiveawayEndedPayload{
		GiveawayID:       7,
		Prize:            "Nitro",
		HostID:           "111",
		WinnerIDs:        []string{"222", "333"},
		ParticipantCount: 5,
	}
	require.NoError(t, bus.Publish(GiveawayEndedTopic, payload))

	select {
	case msg := <-msgs:
		var got GiveawayEndedPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, payload, got)
		assert.Equal(t, msg.UUID, msg.Metadata.Get(middleware.CorrelationIDMetadataKey))
		assert.Equal(t, GiveawayEndedTopic, msg.Metadata.Get("topic"))
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestEventBusRejectsUnmarshalablePayload(t *testing.T) {
	bus := NewEventBus(testLogger())
	defer bus.Close()

	err := bus.Publish(TicketCreatedTopic, func() {})
	require.Error(t, err)
}
