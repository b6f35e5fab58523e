package lingua

// Message is a single entry in a conversation transcript.
type Message struct {
	Role    Role
	Content string
}

// UserText returns a user message with the given content.
func UserText(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantText returns an assistant message with the given content.
func AssistantText(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
