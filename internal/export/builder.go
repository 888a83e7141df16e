package export

import (
	"fmt"

	"github.com/google/uuid"
)

// conversationNamespace seeds the UUIDs derived for conversations whose
// export record has no id.
var conversationNamespace = uuid.MustParse("6f1d9a53-4c1e-5b7a-9d0e-2a8c3f5b7e10")

// normalizer maps one export schema into the canonical model.
type normalizer interface {
	source() Source
	normalize(records []record, b *builder)
}

func normalizerFor(src Source) normalizer {
	if src == SourceClaude {
		return claudeNormalizer{}
	}
	return chatgptNormalizer{}
}

type messageKey struct {
	conversationID string
	messageID      string
}

// builder accumulates normalizer output, applying the shared filters and
// skip accounting so each normalizer only deals with field extraction.
type builder struct {
	opts Options
	ds   Dataset
	seen map[messageKey]bool
}

func newBuilder(src Source, opts Options) *builder {
	if opts.Roles == nil {
		opts.Roles = DefaultRoles()
	}
	return &builder{
		opts: opts,
		ds:   Dataset{Source: src},
		seen: make(map[messageKey]bool),
	}
}

// conversationID returns id, or a stable derived id when the export left it
// blank, so two untitled id-less conversations never collide.
func (b *builder) conversationID(id string, index int, title string) string {
	if id != "" {
		return id
	}
	name := fmt.Sprintf("%s:%d:%s", b.ds.Source, index, title)
	return uuid.NewSHA1(conversationNamespace, []byte(name)).String()
}

func (b *builder) addConversation(c Conversation) {
	b.ds.Conversations = append(b.ds.Conversations, c)
}

func (b *builder) skipNoPayload()    { b.ds.Skipped.NoPayload++ }
func (b *builder) skipBadTimestamp() { b.ds.Skipped.BadTimestamp++ }

// addMessage applies the year filter, then the role filter, then drops empty
// text and repeated message ids.
func (b *builder) addMessage(m Message) {
	if b.opts.Year != 0 && m.CreatedAt.Year() != b.opts.Year {
		b.ds.Skipped.Year++
		return
	}
	if !b.opts.Roles[m.Role] {
		b.ds.Skipped.Role++
		return
	}
	if m.Text == "" {
		b.ds.Skipped.EmptyText++
		return
	}
	if m.ID != "" {
		key := messageKey{conversationID: m.ConversationID, messageID: m.ID}
		if b.seen[key] {
			b.ds.Skipped.Duplicate++
			return
		}
		b.seen[key] = true
	}
	b.ds.Messages = append(b.ds.Messages, m)
}
