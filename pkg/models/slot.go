package models

// Slot is a bookable time period published by a teacher.
//
// IsBooked is true iff exactly one Lesson references this slot's
// teacher/date/time triple; BookedStudentID is set together with it.
type Slot struct {
	ID              string `json:"id"`
	TeacherID       string `json:"teacherId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Subject         string `json:"subject"`
	Price           int    `json:"price"`
	Format          string `json:"format,omitempty"`
	Capacity        int    `json:"capacity,omitempty"`
	IsBooked        bool   `json:"isBooked"`
	BookedStudentID string `json:"bookedStudentId,omitempty"`
}

// Lesson statuses.
const (
	LessonScheduled = "scheduled"
	LessonCompleted = "completed"
)

// Lesson is a confirmed booking derived from a Slot. It is created only as a
// side effect of a booking operation and removed on cancellation.
type Lesson struct {
	ID        string `json:"id"`
	SlotID    string `json:"slotId"`
	StudentID string `json:"studentId"`
	TeacherID string `json:"teacherId"`
	Subject   string `json:"subject"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	Price     int    `json:"price"`
}
