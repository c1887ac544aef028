package event

import "github.com/tutorlink/tutorsync/pkg/models"

// Outbound operation event names, one per mutation the engine can forward to
// the coordinating server.
const (
	CreateSlot                 = "createSlot"
	BookSlot                   = "bookSlot"
	CancelSlot                 = "cancelSlot"
	DeleteSlot                 = "deleteSlot"
	CreateChat                 = "createChat"
	SendMessage                = "sendMessage"
	MarkChatAsRead             = "markChatAsRead"
	ClearChatMessages          = "clearChatMessages"
	ArchiveChat                = "archiveChat"
	UnarchiveChat              = "unarchiveChat"
	DeleteChat                 = "deleteChat"
	CreatePost                 = "createPost"
	AddReaction                = "addReaction"
	AddComment                 = "addComment"
	EditPost                   = "editPost"
	DeletePost                 = "deletePost"
	BookmarkPost               = "bookmarkPost"
	UpdateStudentProfile       = "updateStudentProfile"
	UpdateTeacherProfile       = "updateTeacherProfile"
	SubscribeNotifications     = "subscribeNotifications"
	CreateNotification         = "createNotification"
	MarkNotificationAsRead     = "markNotificationAsRead"
	MarkAllNotificationsAsRead = "markAllNotificationsAsRead"
)

// Outbound payload shapes for the events that wrap more than the entity
// itself. Events like createSlot or createPost carry the entity directly.

type BookSlotPayload struct {
	SlotID          string        `json:"slotId"`
	Lesson          models.Lesson `json:"lesson"`
	BookedStudentID string        `json:"bookedStudentId"`
}

type CancelSlotPayload struct {
	SlotID   string `json:"slotId"`
	LessonID string `json:"lessonId"`
}

type SlotRefPayload struct {
	SlotID string `json:"slotId"`
}

type SendMessagePayload struct {
	ChatID  string         `json:"chatId"`
	Message models.Message `json:"message"`
}

type ChatRefPayload struct {
	ChatID string `json:"chatId"`
}

type ReactionPayload struct {
	PostID       string `json:"postId"`
	ReactionType string `json:"reactionType"`
	UserID       string `json:"userId"`
}

type CommentPayload struct {
	PostID  string         `json:"postId"`
	Comment models.Comment `json:"comment"`
}

type EditPostPayload struct {
	PostID  string `json:"postId"`
	NewText string `json:"newText"`
}

type PostRefPayload struct {
	PostID string `json:"postId"`
}

type BookmarkPayload struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

type StudentProfilePayload struct {
	StudentID string                `json:"studentId"`
	Profile   models.StudentProfile `json:"profile"`
}

type TeacherProfilePayload struct {
	TeacherID string                `json:"teacherId"`
	Profile   models.TeacherProfile `json:"profile"`
}

type UserRefPayload struct {
	UserID string `json:"userId"`
}
