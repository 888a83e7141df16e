package export

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestReader() *Reader {
	return NewReader(slog.New(slog.DiscardHandler))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

// gptNode builds a ChatGPT mapping node carrying a text message.
func gptNode(id, role string, ts float64, parts ...any) map[string]any {
	return map[string]any{
		"id": "node-" + id,
		"message": map[string]any{
			"id":          id,
			"author":      map[string]any{"role": role},
			"create_time": ts,
			"content":     map[string]any{"content_type": "text", "parts": parts},
			"metadata":    map[string]any{},
		},
	}
}

func gptConversation(id, title string, nodes ...map[string]any) map[string]any {
	mapping := map[string]any{
		"root": map[string]any{"id": "root", "message": nil},
	}
	for _, n := range nodes {
		mapping[n["id"].(string)] = n
	}
	return map[string]any{
		"id":          id,
		"title":       title,
		"create_time": 1704067200.5,
		"update_time": 1704153600,
		"mapping":     mapping,
	}
}

func claudeMessage(id, sender, ts, text string) map[string]any {
	return map[string]any{
		"uuid":       id,
		"sender":     sender,
		"created_at": ts,
		"text":       text,
	}
}

func claudeConversation(id, name string, msgs ...map[string]any) map[string]any {
	return map[string]any{
		"uuid":          id,
		"name":          name,
		"created_at":    "2024-03-01T09:00:00Z",
		"updated_at":    "2024-03-02T09:00:00.123456+00:00",
		"chat_messages": msgs,
	}
}
