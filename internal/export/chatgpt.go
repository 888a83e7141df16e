package export

import (
	"sort"
	"strings"
)

// modelKeys are checked in order in a ChatGPT message's metadata.
var modelKeys = []string{"model_slug", "model", "model_name"}

// chatgptNormalizer reads conversations.json from a ChatGPT data export.
// Messages live in a node graph ("mapping") keyed by opaque node ids.
type chatgptNormalizer struct{}

func (chatgptNormalizer) source() Source { return SourceChatGPT }

func (chatgptNormalizer) normalize(records []record, b *builder) {
	for i, conv := range records {
		title := conv.str("title")
		if title == "" {
			title = DefaultTitle
		}
		id := b.conversationID(conv.str("id"), i, title)

		c := Conversation{ID: id, Title: title}
		if t, ok := conv.epoch("create_time"); ok {
			c.CreatedAt = &t
		}
		if t, ok := conv.epoch("update_time"); ok {
			c.UpdatedAt = &t
		}
		b.addConversation(c)

		mapping, ok := conv.object("mapping")
		if !ok {
			continue
		}

		// Node ids are opaque; sorting them keeps duplicate handling stable.
		nodeIDs := make([]string, 0, len(mapping))
		for nodeID := range mapping {
			nodeIDs = append(nodeIDs, nodeID)
		}
		sort.Strings(nodeIDs)

		for _, nodeID := range nodeIDs {
			node, ok := decodeRecord(mapping[nodeID])
			if !ok || !node.truthy("message") {
				b.skipNoPayload()
				continue
			}
			msg, ok := node.object("message")
			if !ok {
				b.skipNoPayload()
				continue
			}

			created, ok := msg.epoch("create_time")
			if !ok {
				b.skipBadTimestamp()
				continue
			}

			b.addMessage(Message{
				ConversationID:    id,
				ConversationTitle: title,
				ID:                msg.str("id"),
				Role:              chatgptRole(msg),
				CreatedAt:         created,
				Text:              chatgptText(msg),
				Model:             chatgptModel(msg),
			})
		}
	}
}

func chatgptRole(msg record) string {
	author, ok := msg.object("author")
	if !ok {
		return "unknown"
	}
	raw, ok := author["role"]
	if !ok {
		return "unknown"
	}
	role, ok := rawString(raw)
	if !ok {
		return "unknown"
	}
	return role
}

// chatgptText extracts plain text according to content.content_type.
// Non-text parts of multimodal messages (images, files) contribute nothing.
func chatgptText(msg record) string {
	content, ok := msg.object("content")
	if !ok {
		return ""
	}
	parts, ok := content.array("parts")
	if !ok {
		return ""
	}

	switch content.str("content_type") {
	case "text":
		var lines []string
		for _, p := range parts {
			if s, ok := rawString(p); ok {
				lines = append(lines, s)
			}
		}
		return strings.TrimSpace(strings.Join(lines, "\n"))

	case "multimodal_text":
		var chunks []string
		for _, p := range parts {
			if s, ok := rawString(p); ok {
				if s != "" {
					chunks = append(chunks, s)
				}
				continue
			}
			if obj, ok := decodeRecord(p); ok && obj.has("text") {
				if s := obj.str("text"); s != "" {
					chunks = append(chunks, s)
				}
			}
		}
		return strings.TrimSpace(strings.Join(chunks, "\n"))
	}
	return ""
}

func chatgptModel(msg record) string {
	meta, ok := msg.object("metadata")
	if !ok {
		return ""
	}
	for _, key := range modelKeys {
		raw, ok := meta[key]
		if !ok {
			continue
		}
		if s, ok := rawString(raw); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
