package export

import (
	"strings"
	"time"
)

// Source identifies which export schema a dataset was parsed from.
type Source string

const (
	SourceUnknown Source = "unknown"
	SourceChatGPT Source = "chatgpt"
	SourceClaude  Source = "claude"
)

// DefaultTitle is used when a conversation carries no title.
const DefaultTitle = "Untitled"

// Conversation is a parsed conversation header.
type Conversation struct {
	ID        string
	Title     string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Message is a single turn in a conversation, shared across normalizers.
type Message struct {
	ConversationID    string
	ConversationTitle string
	ID                string
	Role              string // "user", "assistant", or the source's own label
	CreatedAt         time.Time
	Text              string
	Model             string // empty when the source does not record it
}

// Dataset is the canonical result of ingesting one export.
type Dataset struct {
	Source        Source
	Conversations []Conversation
	Messages      []Message
	Skipped       SkipStats
}

// SkipStats counts messages dropped during ingestion, by reason.
type SkipStats struct {
	NoPayload    int `json:"no_payload"`
	BadTimestamp int `json:"bad_timestamp"`
	EmptyText    int `json:"empty_text"`
	Year         int `json:"year"`
	Role         int `json:"role"`
	Duplicate    int `json:"duplicate"`
}

// Total returns the number of skipped messages across all reasons.
func (s SkipStats) Total() int {
	return s.NoPayload + s.BadTimestamp + s.EmptyText + s.Year + s.Role + s.Duplicate
}

// Options controls filtering during ingestion.
type Options struct {
	Year       int             // 0 keeps every year
	Roles      map[string]bool // canonical roles to keep
	BestEffort bool            // parse unknown schemas as ChatGPT instead of failing
}

// DefaultRoles is the role scope used when none is given.
func DefaultRoles() map[string]bool {
	return map[string]bool{"user": true, "assistant": true}
}

// RoleSet builds a role scope from a list, ignoring blanks.
func RoleSet(roles []string) map[string]bool {
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		if r = strings.TrimSpace(r); r != "" {
			set[r] = true
		}
	}
	return set
}
