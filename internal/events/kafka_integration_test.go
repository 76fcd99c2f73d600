//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"zenith/internal/events"
	"zenith/internal/platform/kafka"
	"zenith/internal/platform/kafka/producer"
	"zenith/internal/platform/logger"
	"zenith/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	broker := containers.GetManager().GetKafka(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p, err := producer.New(broker.Brokers, producer.WithLogger(logger.Discard()))
	require.NoError(t, err)
	defer p.Close(ctx)

	const topic = "zenith.claims.it"
	require.NoError(t, kafka.EnsureTopic(ctx, p.Client(), topic, 1, 1))
	// Second call hits TopicAlreadyExists and must still succeed.
	require.NoError(t, kafka.EnsureTopic(ctx, p.Client(), topic, 1, 1))

	ev := events.Event{
		ID:      uuid.New(),
		Type:    events.ClaimSubmitted,
		ClaimID: uuid.New(),
		Name:    "Zenith Chain",
		Regions: []string{"Chad"},
	}
	require.NoError(t, events.NewKafkaPublisher(p, topic).Publish(ctx, ev))

	reader, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer reader.Close()

	var got []*kgo.Record
	for len(got) == 0 {
		fetches := reader.PollFetches(ctx)
		require.NoError(t, ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) { got = append(got, r) })
	}

	require.Equal(t, ev.ClaimID.String(), string(got[0].Key))
	var decoded events.Event
	require.NoError(t, json.Unmarshal(got[0].Value, &decoded))
	require.Equal(t, ev.ID, decoded.ID)
	require.Equal(t, []string{"Chad"}, decoded.Regions)
}
