//go:build integration

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_PublishSummaryCompleted(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	ctx := context.Background()
	token := os.Getenv("NATS_TOKEN")

	var subOpts []nats.Option
	if token != "" {
		subOpts = append(subOpts, nats.Token(token))
	}
	sub, err := nats.Connect(natsURL, subOpts...)
	require.NoError(t, err)
	defer sub.Close()

	received := make(chan *nats.Msg, 1)
	s, err := sub.ChanSubscribe(SubjectSummaryCompleted, received)
	require.NoError(t, err)
	defer s.Unsubscribe()
	require.NoError(t, sub.Flush())

	pub, err := NewPublisher(ctx, natsURL, token, slog.Default())
	require.NoError(t, err)
	defer pub.Close()

	require.NoError(t, pub.Publish(ctx, SubjectSummaryCompleted, SummaryCompleted{
		RunID:         "integration",
		Source:        "chatgpt",
		TotalMessages: 5,
	}))

	select {
	case msg := <-received:
		var ev SummaryCompleted
		require.NoError(t, json.Unmarshal(msg.Data, &ev))
		assert.Equal(t, "integration", ev.RunID)
		assert.Equal(t, 5, ev.TotalMessages)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}
