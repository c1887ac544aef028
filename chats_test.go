package tutorsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChat(t *testing.T) {
	e := newOfflineEngine(t)

	chat := e.CreateChat("T1", "S1")
	assert.True(t, chat.Between("T1", "S1"))

	// Either participant order resolves to the same conversation.
	again := e.CreateChat("S1", "T1")
	assert.Equal(t, chat.ID, again.ID)
	assert.Len(t, e.Store().Chats(), 1)
}

func TestSendMessage(t *testing.T) {
	e := newOfflineEngine(t)

	t.Run("creates the conversation when absent", func(t *testing.T) {
		msg := e.SendMessage("S1", "T1", "hello")

		chats := e.Store().Chats()
		require.Len(t, chats, 1)
		require.Len(t, chats[0].Messages, 1)
		assert.Equal(t, msg.ID, chats[0].Messages[0].ID)
		assert.Equal(t, "S1", chats[0].Messages[0].SenderID)
	})

	t.Run("appends to the existing conversation", func(t *testing.T) {
		e.SendMessage("T1", "S1", "hi back")

		chats := e.Store().Chats()
		require.Len(t, chats, 1)
		require.Len(t, chats[0].Messages, 2)
		// Monotonic timestamps regardless of wall clock.
		assert.Greater(t, chats[0].Messages[1].Timestamp, chats[0].Messages[0].Timestamp)
	})
}

func TestChatOperations(t *testing.T) {
	e := newOfflineEngine(t)
	chat := e.CreateChat("T1", "S1")
	e.SendMessage("S1", "T1", "hello")

	t.Run("mark as read", func(t *testing.T) {
		e.MarkChatAsRead(chat.ID)
		assert.True(t, e.Store().Chats()[0].Messages[0].IsRead)
	})

	t.Run("archive and unarchive", func(t *testing.T) {
		e.ArchiveChat(chat.ID)
		assert.True(t, e.Store().Chats()[0].Archived)

		e.UnarchiveChat(chat.ID)
		assert.False(t, e.Store().Chats()[0].Archived)
	})

	t.Run("clear keeps the conversation", func(t *testing.T) {
		e.ClearChatMessages(chat.ID)

		chats := e.Store().Chats()
		require.Len(t, chats, 1)
		assert.Empty(t, chats[0].Messages)
	})

	t.Run("unknown chat is a no-op", func(t *testing.T) {
		e.ArchiveChat("chat_unknown")
		assert.Len(t, e.Store().Chats(), 1)
	})

	t.Run("delete", func(t *testing.T) {
		e.DeleteChat(chat.ID)
		assert.Empty(t, e.Store().Chats())
	})
}
