package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCompletedEncoding(t *testing.T) {
	year := 2024
	ev := SummaryCompleted{
		RunID:              "6f1c2b4e-0000-4000-8000-000000000000",
		Source:             "chatgpt",
		Year:               &year,
		TotalMessages:      120,
		TotalConversations: 7,
		TotalWords:         3400,
		OutDir:             "out",
		CompletedAt:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"run_id": "6f1c2b4e-0000-4000-8000-000000000000",
		"source": "chatgpt",
		"year": 2024,
		"total_messages": 120,
		"total_conversations": 7,
		"total_words": 3400,
		"out_dir": "out",
		"completed_at": "2025-01-02T03:04:05Z"
	}`, string(data))
}

func TestSummaryCompletedAllYears(t *testing.T) {
	data, err := json.Marshal(SummaryCompleted{RunID: "r", Source: "claude"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "year")
	assert.Nil(t, decoded["year"])
}
