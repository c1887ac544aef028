package tutorsync

import (
	"github.com/tutorlink/tutorsync/pkg/event"
	"github.com/tutorlink/tutorsync/pkg/models"
	"github.com/tutorlink/tutorsync/pkg/store"
)

// CreateChat ensures a conversation between two users exists and returns it.
// An existing conversation is returned as-is and nothing is sent.
func (e *Engine) CreateChat(userA, userB string) models.Chat {
	var (
		chat    models.Chat
		created bool
	)

	e.store.Update(func(d *store.Data) []store.Collection {
		if existing := d.ChatBetween(userA, userB); existing != nil {
			chat = *existing
			return nil
		}
		chat = models.NewChat(userA, userB)
		d.Chats = append(d.Chats, chat)
		created = true
		return []store.Collection{store.Chats}
	})

	if created {
		e.emit(event.CreateChat, chat)
	}

	return chat
}

// SendMessage appends a message to the conversation between sender and
// recipient, creating the conversation first when absent.
func (e *Engine) SendMessage(senderID, recipientID, text string) models.Message {
	msg := models.NewMessage(senderID, text)

	var (
		chatID      string
		createdChat *models.Chat
	)

	e.store.Update(func(d *store.Data) []store.Collection {
		chat := d.ChatBetween(senderID, recipientID)
		if chat == nil {
			c := models.NewChat(senderID, recipientID)
			d.Chats = append(d.Chats, c)
			chat = d.Chat(c.ID)
			createdChat = &c
		}
		chat.Append(msg)
		chatID = chat.ID
		return []store.Collection{store.Chats}
	})

	if createdChat != nil {
		e.emit(event.CreateChat, *createdChat)
	}
	e.emit(event.SendMessage, event.SendMessagePayload{
		ChatID:  chatID,
		Message: msg,
	})

	return msg
}

// MarkChatAsRead flags every message in the chat as read.
func (e *Engine) MarkChatAsRead(chatID string) {
	e.chatOp(chatID, event.MarkChatAsRead, func(c *models.Chat) {
		for i := range c.Messages {
			c.Messages[i].IsRead = true
		}
	})
}

// ClearChatMessages drops the message history, keeping the conversation.
func (e *Engine) ClearChatMessages(chatID string) {
	e.chatOp(chatID, event.ClearChatMessages, func(c *models.Chat) {
		c.Messages = nil
	})
}

// ArchiveChat hides the conversation from the active list.
func (e *Engine) ArchiveChat(chatID string) {
	e.chatOp(chatID, event.ArchiveChat, func(c *models.Chat) {
		c.Archived = true
	})
}

// UnarchiveChat restores an archived conversation.
func (e *Engine) UnarchiveChat(chatID string) {
	e.chatOp(chatID, event.UnarchiveChat, func(c *models.Chat) {
		c.Archived = false
	})
}

// DeleteChat removes the conversation. Unknown IDs are a silent no-op.
func (e *Engine) DeleteChat(chatID string) {
	removed := false
	e.store.Update(func(d *store.Data) []store.Collection {
		if !d.RemoveChat(chatID) {
			return nil
		}
		removed = true
		return []store.Collection{store.Chats}
	})

	if removed {
		e.emit(event.DeleteChat, event.ChatRefPayload{ChatID: chatID})
	}
}

// chatOp applies fn to an existing chat and forwards the named event.
// Unknown chat IDs are a silent no-op.
func (e *Engine) chatOp(chatID, eventName string, fn func(*models.Chat)) {
	found := false
	e.store.Update(func(d *store.Data) []store.Collection {
		chat := d.Chat(chatID)
		if chat == nil {
			return nil
		}
		fn(chat)
		found = true
		return []store.Collection{store.Chats}
	})

	if found {
		e.emit(eventName, event.ChatRefPayload{ChatID: chatID})
	}
}
