package tutorsync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorsync/pkg/event"
	"github.com/tutorlink/tutorsync/pkg/models"
)

func TestApplySlotCreated(t *testing.T) {
	e := newOfflineEngine(t)

	remote := models.Slot{ID: "slot_1", TeacherID: "T1", Subject: "Math"}
	e.apply(event.SlotCreated{Slot: remote})
	e.apply(event.SlotCreated{Slot: remote})

	require.Len(t, e.Store().Slots(), 1)
}

func TestApplyEchoKeepsLocalVersion(t *testing.T) {
	e := newOfflineEngine(t)
	slot := e.CreateSlot(models.Slot{TeacherID: "T1", Subject: "Math"})

	// The server echoing back the creation must not duplicate or clobber the
	// local copy, even when the echo differs.
	echo := slot
	echo.Subject = "Chemistry"
	e.apply(event.SlotCreated{Slot: echo})

	stored := e.Store().Slots()
	require.Len(t, stored, 1)
	assert.Equal(t, "Math", stored[0].Subject)
}

func TestApplySlotBooked(t *testing.T) {
	e := newOfflineEngine(t)
	slot := e.CreateSlot(models.Slot{TeacherID: "T1", Subject: "Math"})

	booked := event.SlotBooked{
		SlotID:          slot.ID,
		Lesson:          models.Lesson{ID: "lesson_1", SlotID: slot.ID, StudentID: "S1"},
		BookedStudentID: "S1",
	}
	e.apply(booked)

	// Lesson inserted and slot flipped in the same step.
	require.Len(t, e.Store().Lessons(), 1)
	slots := e.Store().Slots()
	require.Len(t, slots, 1)
	assert.True(t, slots[0].IsBooked)
	assert.Equal(t, "S1", slots[0].BookedStudentID)

	// Replays do not duplicate the lesson.
	e.apply(booked)
	assert.Len(t, e.Store().Lessons(), 1)
}

func TestApplySlotCancelled(t *testing.T) {
	e := newOfflineEngine(t)
	slot := e.CreateSlot(models.Slot{TeacherID: "T1"})
	lesson := e.BookLesson(slot.ID, "S1", "Alice")
	require.NotNil(t, lesson)

	e.apply(event.SlotCancelled{SlotID: slot.ID, LessonID: lesson.ID})

	assert.Empty(t, e.Store().Lessons())
	assert.False(t, e.Store().Slots()[0].IsBooked)

	// Cancelling what is already gone is fine.
	e.apply(event.SlotCancelled{SlotID: slot.ID, LessonID: lesson.ID})
	assert.Empty(t, e.Store().Lessons())
}

func TestApplyReceiveMessage(t *testing.T) {
	e := newOfflineEngine(t)
	chat := e.CreateChat("T1", "S1")

	msg := models.Message{ID: "msg_1", SenderID: "S1", Text: "hi", Timestamp: 100}
	e.apply(event.ReceiveMessage{ChatID: chat.ID, Message: msg})
	e.apply(event.ReceiveMessage{ChatID: chat.ID, Message: msg})

	chats := e.Store().Chats()
	require.Len(t, chats, 1)
	assert.Len(t, chats[0].Messages, 1)

	// Unknown chat: dropped, not created.
	e.apply(event.ReceiveMessage{ChatID: "chat_unknown", Message: msg})
	assert.Len(t, e.Store().Chats(), 1)
}

func TestSnapshotUnaffectedByConcurrentReconcile(t *testing.T) {
	e := newOfflineEngine(t)
	chat := e.CreateChat("T1", "S1")
	e.SendMessage("S1", "T1", "hello")

	snapshot := e.Store().Chats()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			e.apply(event.ChatMarkedAsRead{ChatID: chat.ID})
		}
	}()

	// The snapshot predates the inbound events, so it must keep reading as
	// unread while reconciliation mutates the live chat.
	for i := 0; i < 100; i++ {
		assert.False(t, snapshot[0].Messages[0].IsRead)
	}
	<-done

	assert.True(t, e.Store().Chats()[0].Messages[0].IsRead)
}

func TestApplyPostReactionUpdated(t *testing.T) {
	e := newOfflineEngine(t)
	post := e.CreatePost("S1", "hello")

	e.apply(event.PostReactionUpdated{PostID: post.ID, UserID: "S2", ReactionType: "like"})
	assert.Equal(t, "like", e.Store().Posts()[0].Reactions["S2"])

	// Replaying the same assignment is idempotent.
	e.apply(event.PostReactionUpdated{PostID: post.ID, UserID: "S2", ReactionType: "like"})
	assert.Equal(t, "like", e.Store().Posts()[0].Reactions["S2"])

	// Empty type removes the reaction.
	e.apply(event.PostReactionUpdated{PostID: post.ID, UserID: "S2", ReactionType: ""})
	assert.NotContains(t, e.Store().Posts()[0].Reactions, "S2")
}

func TestApplyPostBookmarkUpdated(t *testing.T) {
	e := newOfflineEngine(t)
	post := e.CreatePost("S1", "hello")

	set := event.PostBookmarkUpdated{PostID: post.ID, UserID: "S2", Bookmarked: true}
	e.apply(set)
	e.apply(set)
	assert.Equal(t, []string{"S2"}, e.Store().Posts()[0].Bookmarks)

	e.apply(event.PostBookmarkUpdated{PostID: post.ID, UserID: "S2", Bookmarked: false})
	assert.Empty(t, e.Store().Posts()[0].Bookmarks)
}

func TestApplyNotificationMarkedAsRead(t *testing.T) {
	e := newOfflineEngine(t)
	n := e.CreateNotification("S1", "booking", "new lesson")

	e.apply(event.NotificationMarkedAsRead{ID: n.ID})
	require.True(t, e.Store().Notifications()[0].IsRead)

	// The read flag never reverses.
	e.apply(event.NotificationMarkedAsRead{ID: n.ID})
	assert.True(t, e.Store().Notifications()[0].IsRead)
}

func TestApplyProfileUpdatedRoutesByRole(t *testing.T) {
	e := newOfflineEngine(t)

	raw, err := json.Marshal(models.TeacherProfile{ID: "T1", Name: "Maria"})
	require.NoError(t, err)
	e.apply(event.ProfileUpdated{UserID: "T1", Role: models.RoleTeacher, Profile: raw})

	profiles := e.Store().TeacherProfiles()
	require.Contains(t, profiles, "T1")
	assert.Equal(t, "Maria", profiles["T1"].Name)

	users := e.Store().Users()
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleTeacher, users[0].Role)

	t.Run("unknown role is dropped", func(t *testing.T) {
		e.apply(event.ProfileUpdated{UserID: "X1", Role: "admin", Profile: raw})
		assert.Len(t, e.Store().Users(), 1)
	})
}

func TestApplyBulkUpdate(t *testing.T) {
	e := newOfflineEngine(t)
	e.CreateSlot(models.Slot{TeacherID: "T1"})
	e.CreatePost("S1", "keep me")

	slots := []models.Slot{{ID: "slot_a"}, {ID: "slot_b"}}
	e.apply(event.DataUpdated{TimeSlots: &slots})

	// Present collections are replaced wholesale, absent ones untouched.
	assert.Len(t, e.Store().Slots(), 2)
	assert.Len(t, e.Store().Posts(), 1)
}

func TestApplyAllSlots(t *testing.T) {
	e := newOfflineEngine(t)
	e.CreateSlot(models.Slot{TeacherID: "T1"})

	e.apply(event.AllSlots{Slots: []models.Slot{{ID: "slot_x"}}})

	slots := e.Store().Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, "slot_x", slots[0].ID)
}
