package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	topic   string
	key     []byte
	value   []byte
	headers map[string]string
	err     error
}

func (p *recordingProducer) Produce(_ context.Context, topic string, key, value []byte, headers map[string]string) error {
	p.topic, p.key, p.value, p.headers = topic, key, value, headers
	return p.err
}

func sampleEvent() Event {
	return Event{
		ID:          uuid.New(),
		Type:        ClaimSubmitted,
		ClaimID:     uuid.New(),
		Name:        "Zenith Chain",
		ProjectType: "Blockchain",
		Regions:     []string{"Germany", "Poland"},
		TotalArea:   652_927,
		TotalPrice:  0.2611708,
		PriceWei:    "130585400000000",
		OccurredAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher(t *testing.T) {
	t.Run("keys by claim id and tags the event type", func(t *testing.T) {
		producer := &recordingProducer{}
		ev := sampleEvent()

		require.NoError(t, NewKafkaPublisher(producer, "zenith.claims").Publish(context.Background(), ev))

		assert.Equal(t, "zenith.claims", producer.topic)
		assert.Equal(t, ev.ClaimID.String(), string(producer.key))
		assert.Equal(t, "claim.submitted", producer.headers["event_type"])
		assert.Equal(t, ev.ID.String(), producer.headers["event_id"])

		var decoded Event
		require.NoError(t, json.Unmarshal(producer.value, &decoded))
		assert.Equal(t, ev, decoded)
	})

	t.Run("producer errors are returned", func(t *testing.T) {
		producer := &recordingProducer{err: errors.New("broker down")}
		err := NewKafkaPublisher(producer, "zenith.claims").Publish(context.Background(), sampleEvent())
		assert.EqualError(t, err, "broker down")
	})
}

func TestMemoryPublisher(t *testing.T) {
	p := NewMemoryPublisher()
	ev := sampleEvent()
	require.NoError(t, p.Publish(context.Background(), ev))
	require.NoError(t, Nop{}.Publish(context.Background(), ev))

	got := p.Events()
	require.Len(t, got, 1)
	got[0].Name = "mutated"
	assert.Equal(t, "Zenith Chain", p.Events()[0].Name)
}
