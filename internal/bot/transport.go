package bot

import "strings"

const commandPrefix = "!"

// Event is one inbound chat message. Command is empty for plain text.
type Event struct {
	ChatID  string
	Text    string
	Command string
	Args    []string
}

// Transport delivers outbound text and yields inbound events. Implementations
// must not block in Send for longer than a network round trip.
type Transport interface {
	Send(chatID, text string) error
	Events() <-chan Event
	Close() error
}

// ParseEvent classifies a raw message as a command or free text.
func ParseEvent(chatID, text string) Event {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, commandPrefix) {
		return Event{ChatID: chatID, Text: text}
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, commandPrefix))
	if len(fields) == 0 || fields[0] == "" {
		return Event{ChatID: chatID, Text: text}
	}
	return Event{
		ChatID:  chatID,
		Text:    text,
		Command: strings.ToLower(fields[0]),
		Args:    fields[1:],
	}
}
