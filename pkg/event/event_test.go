package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorsync/pkg/codec"
)

func TestDecode(t *testing.T) {
	c := codec.JSON{}

	t.Run("entity payload", func(t *testing.T) {
		ev, err := Decode(SlotCreatedName, []byte(`{"id":"slot_1","teacherId":"T1"}`), c)
		require.NoError(t, err)

		created, ok := ev.(SlotCreated)
		require.True(t, ok)
		assert.Equal(t, "slot_1", created.Slot.ID)
		assert.Equal(t, "T1", created.Slot.TeacherID)
	})

	t.Run("wrapper payload", func(t *testing.T) {
		ev, err := Decode(SlotBookedName,
			[]byte(`{"slotId":"slot_1","lesson":{"id":"lesson_1"},"bookedStudentId":"S1"}`), c)
		require.NoError(t, err)

		booked, ok := ev.(SlotBooked)
		require.True(t, ok)
		assert.Equal(t, "slot_1", booked.SlotID)
		assert.Equal(t, "lesson_1", booked.Lesson.ID)
		assert.Equal(t, "S1", booked.BookedStudentID)
	})

	t.Run("bulk payload distinguishes absent collections", func(t *testing.T) {
		ev, err := Decode(DataUpdatedName, []byte(`{"timeSlots":[]}`), c)
		require.NoError(t, err)

		bulk, ok := ev.(DataUpdated)
		require.True(t, ok)
		assert.NotNil(t, bulk.TimeSlots)
		assert.Nil(t, bulk.Lessons)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := Decode("somethingElse", []byte(`{}`), c)
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})

	t.Run("total over the closed set", func(t *testing.T) {
		for _, name := range InboundNames {
			payload := `{}`
			switch name {
			case AllSlotsName, AllUsersName, AllLessonsName:
				payload = `[]`
			}
			_, err := Decode(name, []byte(payload), c)
			assert.NoError(t, err, name)
		}
	})

	t.Run("undecodable payload", func(t *testing.T) {
		_, err := Decode(SlotCreatedName, []byte(`{broken`), c)
		assert.Error(t, err)
	})
}
