package analyze

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9'_-]{1,}`)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "can": true, "do": true, "for": true,
	"from": true, "have": true, "how": true, "i": true, "if": true, "in": true,
	"is": true, "it": true, "just": true, "like": true, "me": true, "my": true,
	"not": true, "of": true, "on": true, "or": true, "please": true, "so": true,
	"that": true, "the": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "to": true,
	"we": true, "what": true, "when": true, "where": true, "which": true,
	"with": true, "would": true, "you": true, "your": true,
}

// Tokenize splits text into lower-cased words of two or more characters,
// dropping stop words and purely numeric tokens.
func Tokenize(text string) []string {
	matches := wordRe.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		w := strings.ToLower(m)
		if stopwords[w] || isNumeric(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// bigrams pairs adjacent surviving tokens.
func bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i < len(tokens)-1; i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
