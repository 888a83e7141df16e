package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatGPT_BasicConversation(t *testing.T) {
	data := mustJSON(t, []any{
		gptConversation("c1", "Trip planning",
			gptNode("m1", "user", 1717236000, "Plan a trip", "to Lisbon"),
			gptNode("m2", "assistant", 1717236005.25, "Sure, here is a plan."),
		),
	})

	ds, err := newTestReader().Load(data, Options{})
	require.NoError(t, err)

	assert.Equal(t, SourceChatGPT, ds.Source)
	require.Len(t, ds.Conversations, 1)
	conv := ds.Conversations[0]
	assert.Equal(t, "c1", conv.ID)
	assert.Equal(t, "Trip planning", conv.Title)
	require.NotNil(t, conv.CreatedAt)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 500_000_000, time.UTC), *conv.CreatedAt)
	require.NotNil(t, conv.UpdatedAt)

	require.Len(t, ds.Messages, 2)
	first := ds.Messages[0]
	assert.Equal(t, "m1", first.ID)
	assert.Equal(t, "user", first.Role)
	assert.Equal(t, "Plan a trip\nto Lisbon", first.Text)
	assert.Equal(t, "Trip planning", first.ConversationTitle)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, "assistant", ds.Messages[1].Role)
	assert.Equal(t, 1, ds.Skipped.NoPayload, "root node has no message payload")
}

func TestChatGPT_MultimodalDropsNonTextParts(t *testing.T) {
	node := gptNode("m1", "user", 1717236000)
	node["message"].(map[string]any)["content"] = map[string]any{
		"content_type": "multimodal_text",
		"parts": []any{
			map[string]any{"content_type": "image_asset_pointer", "asset_pointer": "file-service://abc"},
			"What is in this picture?",
			map[string]any{"text": "caption text"},
			"",
		},
	}
	ds, err := newTestReader().Load(mustJSON(t, []any{gptConversation("c1", "Pics", node)}), Options{})
	require.NoError(t, err)

	require.Len(t, ds.Messages, 1)
	assert.Equal(t, "What is in this picture?\ncaption text", ds.Messages[0].Text)
}

func TestChatGPT_UnsupportedContentTypeDropped(t *testing.T) {
	node := gptNode("m1", "assistant", 1717236000)
	node["message"].(map[string]any)["content"] = map[string]any{
		"content_type": "code",
		"text":         "print(1)",
	}
	ds, err := newTestReader().Load(mustJSON(t, []any{gptConversation("c1", "Code", node)}), Options{})
	require.NoError(t, err)

	assert.Empty(t, ds.Messages)
	assert.Equal(t, 1, ds.Skipped.EmptyText)
}

func TestChatGPT_BadTimestampDropped(t *testing.T) {
	missing := gptNode("m1", "user", 0, "no time")
	delete(missing["message"].(map[string]any), "create_time")
	bogus := gptNode("m2", "user", 0, "bad time")
	bogus["message"].(map[string]any)["create_time"] = "yesterday"
	numeric := gptNode("m3", "user", 0, "string time")
	numeric["message"].(map[string]any)["create_time"] = "1717236000"

	ds, err := newTestReader().Load(mustJSON(t, []any{gptConversation("c1", "T", missing, bogus, numeric)}), Options{})
	require.NoError(t, err)

	require.Len(t, ds.Messages, 1)
	assert.Equal(t, "m3", ds.Messages[0].ID)
	assert.Equal(t, 2, ds.Skipped.BadTimestamp)
}

func TestChatGPT_OutOfRangeTimestampDropped(t *testing.T) {
	huge := gptNode("m1", "user", 1e20, "far future")
	negative := gptNode("m2", "user", -1e15, "before year one")
	nan := gptNode("m3", "user", 0, "not a number")
	nan["message"].(map[string]any)["create_time"] = "NaN"
	inf := gptNode("m4", "user", 0, "infinite")
	inf["message"].(map[string]any)["create_time"] = "+Inf"
	fine := gptNode("m5", "user", 1717236000, "fine")

	conv := gptConversation("c1", "T", huge, negative, nan, inf, fine)
	conv["create_time"] = 1e20

	ds, err := newTestReader().Load(mustJSON(t, []any{conv}), Options{})
	require.NoError(t, err)

	require.Len(t, ds.Messages, 1)
	assert.Equal(t, "m5", ds.Messages[0].ID)
	assert.Equal(t, 4, ds.Skipped.BadTimestamp)
	require.Len(t, ds.Conversations, 1)
	assert.Nil(t, ds.Conversations[0].CreatedAt)
	require.NotNil(t, ds.Conversations[0].UpdatedAt)
}

func TestEpochTimeRange(t *testing.T) {
	got, ok := epochTime(1717236000.5)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 500000000, time.UTC), got)

	_, ok = epochTime(maxEpoch)
	assert.True(t, ok)
	_, ok = epochTime(maxEpoch + 1)
	assert.False(t, ok)
	_, ok = epochTime(minEpoch - 1)
	assert.False(t, ok)
}

func TestChatGPT_RoleDefaultsToUnknown(t *testing.T) {
	node := gptNode("m1", "user", 1717236000, "hello there")
	delete(node["message"].(map[string]any), "author")

	ds, err := newTestReader().Load(mustJSON(t, []any{gptConversation("c1", "T", node)}),
		Options{Roles: RoleSet([]string{"unknown"})})
	require.NoError(t, err)

	require.Len(t, ds.Messages, 1)
	assert.Equal(t, "unknown", ds.Messages[0].Role)
}

func TestChatGPT_ModelPriority(t *testing.T) {
	slug := gptNode("m1", "assistant", 1717236000, "a")
	slug["message"].(map[string]any)["metadata"] = map[string]any{"model_slug": " gpt-4o ", "model": "other"}
	fallback := gptNode("m2", "assistant", 1717236001, "b")
	fallback["message"].(map[string]any)["metadata"] = map[string]any{"model_slug": "  ", "model_name": "o1"}
	none := gptNode("m3", "assistant", 1717236002, "c")

	ds, err := newTestReader().Load(mustJSON(t, []any{gptConversation("c1", "T", slug, fallback, none)}), Options{})
	require.NoError(t, err)

	require.Len(t, ds.Messages, 3)
	assert.Equal(t, "gpt-4o", ds.Messages[0].Model)
	assert.Equal(t, "o1", ds.Messages[1].Model)
	assert.Empty(t, ds.Messages[2].Model)
}

func TestChatGPT_UntitledAndMissingIDs(t *testing.T) {
	a := gptConversation("", "", gptNode("m1", "user", 1717236000, "one"))
	delete(a, "title")
	b := gptConversation("", "", gptNode("m1", "user", 1717236000, "two"))

	ds, err := newTestReader().Load(mustJSON(t, []any{a, b}), Options{})
	require.NoError(t, err)

	require.Len(t, ds.Conversations, 2)
	assert.Equal(t, DefaultTitle, ds.Conversations[0].Title)
	assert.Equal(t, DefaultTitle, ds.Conversations[1].Title)
	assert.NotEmpty(t, ds.Conversations[0].ID)
	assert.NotEqual(t, ds.Conversations[0].ID, ds.Conversations[1].ID)
	assert.Len(t, ds.Messages, 2, "same message id in different conversations is not a duplicate")

	again, err := newTestReader().Load(mustJSON(t, []any{a, b}), Options{})
	require.NoError(t, err)
	assert.Equal(t, ds.Conversations[0].ID, again.Conversations[0].ID, "derived ids are stable across runs")
}

func TestChatGPT_MalformedMappingKeepsConversation(t *testing.T) {
	conv := map[string]any{"id": "c1", "title": "Broken", "mapping": "not an object"}
	ds, err := newTestReader().Load(mustJSON(t, []any{conv}), Options{})
	require.NoError(t, err)

	require.Len(t, ds.Conversations, 1)
	assert.Empty(t, ds.Messages)
	assert.Nil(t, ds.Conversations[0].CreatedAt)
}
