package models

import "time"

// Message is a single chat message. Timestamp is unix milliseconds.
type Message struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	IsRead    bool   `json:"isRead"`
}

// Chat is a conversation between exactly two participants. Messages are
// append-only and timestamp-monotonic.
type Chat struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participantIds"`
	Messages       []Message `json:"messages"`
	Archived       bool      `json:"archived"`
}

// NewChat creates a chat between two participants with a generated ID.
func NewChat(userA, userB string) Chat {
	return Chat{
		ID:             NewID("chat"),
		ParticipantIDs: []string{userA, userB},
	}
}

// Between reports whether the chat is the conversation between the two
// given users, in either order.
func (c *Chat) Between(userA, userB string) bool {
	if len(c.ParticipantIDs) != 2 {
		return false
	}
	a, b := c.ParticipantIDs[0], c.ParticipantIDs[1]
	return (a == userA && b == userB) || (a == userB && b == userA)
}

// Append adds a message, keeping timestamps strictly monotonic even when the
// wall clock reads backwards.
func (c *Chat) Append(m Message) {
	if n := len(c.Messages); n > 0 && m.Timestamp <= c.Messages[n-1].Timestamp {
		m.Timestamp = c.Messages[n-1].Timestamp + 1
	}
	c.Messages = append(c.Messages, m)
}

// NewMessage creates a message from the given sender, stamped with the
// current wall clock.
func NewMessage(senderID, text string) Message {
	return Message{
		ID:        NewID("msg"),
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}
