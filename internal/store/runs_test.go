package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/yywc/internal/analyze"
	"github.com/MikeSquared-Agency/yywc/internal/export"
)

func TestNewRun(t *testing.T) {
	ds := &export.Dataset{
		Source: export.SourceClaude,
		Messages: []export.Message{
			{ConversationID: "c1", ID: "m1", Role: "user", CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Text: "hello world again"},
		},
	}
	s := analyze.Summarize(ds, analyze.Options{Year: 2024, Location: time.UTC})
	id := uuid.New()

	run, err := NewRun(id, s)
	require.NoError(t, err)

	assert.Equal(t, id, run.ID)
	assert.Equal(t, "claude", run.Source)
	require.NotNil(t, run.Year)
	assert.Equal(t, 2024, *run.Year)
	assert.Equal(t, 1, run.TotalMessages)
	assert.Equal(t, 1, run.TotalConversations)
	assert.Equal(t, s.TotalWords, run.TotalWords)
	assert.True(t, run.CreatedAt.IsZero())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(run.Summary, &decoded))
	assert.Equal(t, "claude", decoded["source"])
}

func TestNewRunAllYears(t *testing.T) {
	run, err := NewRun(uuid.New(), analyze.Summarize(&export.Dataset{}, analyze.Options{Location: time.UTC}))
	require.NoError(t, err)
	assert.Nil(t, run.Year)
	assert.Zero(t, run.TotalMessages)
}
