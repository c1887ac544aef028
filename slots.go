package tutorsync

import (
	"github.com/tutorlink/tutorsync/pkg/event"
	"github.com/tutorlink/tutorsync/pkg/models"
	"github.com/tutorlink/tutorsync/pkg/store"
)

// CreateSlot publishes a bookable slot. A missing ID is generated
// client-side before any network interaction; a slot with an already-known
// ID is left untouched and nothing is sent.
func (e *Engine) CreateSlot(slot models.Slot) models.Slot {
	if slot.ID == "" {
		slot.ID = models.NewID("slot")
	}
	slot.IsBooked = false
	slot.BookedStudentID = ""

	created := false
	e.store.Update(func(d *store.Data) []store.Collection {
		if d.Slot(slot.ID) != nil {
			return nil
		}
		d.Slots = append(d.Slots, slot)
		created = true
		return []store.Collection{store.Slots}
	})

	if created {
		e.emit(event.CreateSlot, slot)
	}

	return slot
}

// DeleteSlot removes a slot. Deleting an unknown slot is a silent no-op.
func (e *Engine) DeleteSlot(slotID string) {
	removed := false
	e.store.Update(func(d *store.Data) []store.Collection {
		if !d.RemoveSlot(slotID) {
			return nil
		}
		removed = true
		return []store.Collection{store.Slots}
	})

	if removed {
		e.emit(event.DeleteSlot, event.SlotRefPayload{SlotID: slotID})
	}
}

// BookLesson books an available slot for a student: it creates the Lesson,
// flips the slot's booked flag, and makes sure a chat between the teacher
// and the student exists, all in one synchronous step. Booking an unknown or
// already-booked slot is a silent no-op: no lesson is created and nothing is
// sent.
func (e *Engine) BookLesson(slotID, studentID, studentName string) *models.Lesson {
	var (
		lesson      *models.Lesson
		createdChat *models.Chat
	)

	e.store.Update(func(d *store.Data) []store.Collection {
		slot := d.Slot(slotID)
		if slot == nil || slot.IsBooked {
			return nil
		}

		l := models.Lesson{
			ID:        models.NewID("lesson"),
			SlotID:    slot.ID,
			StudentID: studentID,
			TeacherID: slot.TeacherID,
			Subject:   slot.Subject,
			Date:      slot.Date,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Status:    models.LessonScheduled,
			Price:     slot.Price,
		}
		d.Lessons = append(d.Lessons, l)
		lesson = &l

		slot.IsBooked = true
		slot.BookedStudentID = studentID

		dirty := []store.Collection{store.Slots, store.Lessons}
		if d.ChatBetween(slot.TeacherID, studentID) == nil {
			chat := models.NewChat(slot.TeacherID, studentID)
			d.Chats = append(d.Chats, chat)
			createdChat = &chat
			dirty = append(dirty, store.Chats)
		}
		return dirty
	})

	if lesson == nil {
		return nil
	}

	if createdChat != nil {
		e.emit(event.CreateChat, *createdChat)
	}
	e.emit(event.BookSlot, event.BookSlotPayload{
		SlotID:          slotID,
		Lesson:          *lesson,
		BookedStudentID: studentID,
	})

	return lesson
}

// CancelLesson removes the lesson and clears the booked flag on its slot in
// the same synchronous step. Canceling an unknown lesson is a silent no-op.
func (e *Engine) CancelLesson(lessonID string) {
	slotID := ""
	e.store.Update(func(d *store.Data) []store.Collection {
		lesson := d.Lesson(lessonID)
		if lesson == nil {
			return nil
		}
		slotID = lesson.SlotID

		d.RemoveLesson(lessonID)
		if slot := d.Slot(slotID); slot != nil {
			slot.IsBooked = false
			slot.BookedStudentID = ""
		}
		return []store.Collection{store.Slots, store.Lessons}
	})

	if slotID == "" {
		return
	}

	e.emit(event.CancelSlot, event.CancelSlotPayload{
		SlotID:   slotID,
		LessonID: lessonID,
	})
}

// RescheduleLesson moves a lesson to a different open slot: the old slot is
// freed and the new one booked, and the lesson's schedule follows the new
// slot. On the wire this is a cancel followed by a booking of the same
// lesson, which round-trips through the existing slotCancelled/slotBooked
// events. A no-op when the lesson is unknown or the target slot is not
// available.
func (e *Engine) RescheduleLesson(lessonID, newSlotID string) bool {
	var (
		oldSlotID string
		moved     *models.Lesson
	)

	e.store.Update(func(d *store.Data) []store.Collection {
		lesson := d.Lesson(lessonID)
		if lesson == nil {
			return nil
		}
		target := d.Slot(newSlotID)
		if target == nil || target.IsBooked || target.ID == lesson.SlotID {
			return nil
		}

		if old := d.Slot(lesson.SlotID); old != nil {
			old.IsBooked = false
			old.BookedStudentID = ""
		}
		oldSlotID = lesson.SlotID

		target.IsBooked = true
		target.BookedStudentID = lesson.StudentID

		lesson.SlotID = target.ID
		lesson.Subject = target.Subject
		lesson.Date = target.Date
		lesson.StartTime = target.StartTime
		lesson.EndTime = target.EndTime
		lesson.Price = target.Price
		l := *lesson
		moved = &l

		return []store.Collection{store.Slots, store.Lessons}
	})

	if moved == nil {
		return false
	}

	e.emit(event.CancelSlot, event.CancelSlotPayload{
		SlotID:   oldSlotID,
		LessonID: lessonID,
	})
	e.emit(event.BookSlot, event.BookSlotPayload{
		SlotID:          newSlotID,
		Lesson:          *moved,
		BookedStudentID: moved.StudentID,
	})

	return true
}
