package analyze

import (
	"strings"
	"time"

	"github.com/MikeSquared-Agency/yywc/internal/export"
)

const (
	excerptMaxRunes = 360
	ellipsis        = "…"
)

// Excerpt is a short, cleaned-up sample of one message.
type Excerpt struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
	CreatedAt      string `json:"created_at"`
	Role           string `json:"role"`
	Text           string `json:"text"`
}

// selectExcerpts scans at most 2*max messages in order and keeps the first
// max that are non-empty after cleanup.
func selectExcerpts(msgs []export.Message, max int, redact bool) []Excerpt {
	if max <= 0 {
		return []Excerpt{}
	}
	window := msgs
	if len(window) > 2*max {
		window = window[:2*max]
	}

	out := make([]Excerpt, 0, max)
	for _, m := range window {
		text := truncateRunes(normalizeWhitespace(m.Text), excerptMaxRunes)
		if redact {
			text = Redact(text)
		}
		if text != "" {
			title := m.ConversationTitle
			if title == "" {
				title = export.DefaultTitle
			}
			out = append(out, Excerpt{
				ConversationID: m.ConversationID,
				Title:          title,
				CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339),
				Role:           m.Role,
				Text:           text,
			})
		}
		if len(out) >= max {
			break
		}
	}
	return out
}

// normalizeWhitespace unifies line endings, trims every line and drops
// blank ones.
func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ellipsis
}
