package export

import "strings"

// claudeRoles maps Claude's "sender" vocabulary onto canonical roles.
var claudeRoles = map[string]string{
	"human":     "user",
	"assistant": "assistant",
}

// claudeNormalizer reads conversations.json from a Claude data export.
// Messages are a flat list; the export never records the responding model.
type claudeNormalizer struct{}

func (claudeNormalizer) source() Source { return SourceClaude }

func (claudeNormalizer) normalize(records []record, b *builder) {
	for i, conv := range records {
		title := conv.str("name")
		if title == "" {
			title = DefaultTitle
		}
		id := b.conversationID(conv.str("uuid"), i, title)

		c := Conversation{ID: id, Title: title}
		if t, ok := parseISO(conv.str("created_at")); ok {
			c.CreatedAt = &t
		}
		if t, ok := parseISO(conv.str("updated_at")); ok {
			c.UpdatedAt = &t
		}
		b.addConversation(c)

		items, ok := conv.array("chat_messages")
		if !ok {
			continue
		}
		for _, item := range items {
			msg, ok := decodeRecord(item)
			if !ok {
				b.skipNoPayload()
				continue
			}
			created, ok := parseISO(msg.str("created_at"))
			if !ok {
				b.skipBadTimestamp()
				continue
			}
			b.addMessage(Message{
				ConversationID:    id,
				ConversationTitle: title,
				ID:                msg.str("uuid"),
				Role:              claudeRole(msg),
				CreatedAt:         created,
				Text:              claudeText(msg),
			})
		}
	}
}

func claudeRole(msg record) string {
	raw, ok := msg["sender"]
	if !ok {
		return "unknown"
	}
	sender, ok := rawString(raw)
	if !ok {
		return "unknown"
	}
	if role, ok := claudeRoles[sender]; ok {
		return role
	}
	return sender
}

// claudeText prefers the flat "text" field and falls back to the text of
// each content block.
func claudeText(msg record) string {
	if text := strings.TrimSpace(msg.str("text")); text != "" {
		return text
	}
	blocks, ok := msg.array("content")
	if !ok {
		return ""
	}
	var parts []string
	for _, raw := range blocks {
		block, ok := decodeRecord(raw)
		if !ok {
			continue
		}
		if s := block.str("text"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
