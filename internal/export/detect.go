package export

// Detect classifies an export by inspecting its first conversation record
// only. A file whose first record differs in shape from the rest will be
// misclassified.
func Detect(records []record) Source {
	if len(records) == 0 {
		return SourceUnknown
	}
	first := records[0]
	switch {
	case first.has("chat_messages") && first.has("uuid"):
		return SourceClaude
	case first.has("mapping") && first.has("id"):
		return SourceChatGPT
	default:
		return SourceUnknown
	}
}
