// Package event defines the operation events exchanged with the coordinating
// server as a closed set: outbound mutation events by name, and inbound
// broadcast/echo events as a sealed tagged union. Reconciliation can dispatch
// over the union exhaustively instead of through a string-keyed handler map.
package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tutorlink/tutorsync/pkg/codec"
	"github.com/tutorlink/tutorsync/pkg/models"
)

// Inbound broadcast/echo event names.
const (
	SlotCreatedName                  = "slotCreated"
	SlotBookedName                   = "slotBooked"
	SlotCancelledName                = "slotCancelled"
	SlotDeletedName                  = "slotDeleted"
	AllSlotsName                     = "allSlots"
	ChatCreatedName                  = "chatCreated"
	ReceiveMessageName               = "receiveMessage"
	ChatDeletedName                  = "chatDeleted"
	ChatMarkedAsReadName             = "chatMarkedAsRead"
	ChatMessagesClearedName          = "chatMessagesCleared"
	ChatArchivedName                 = "chatArchived"
	ChatUnarchivedName               = "chatUnarchived"
	PostCreatedName                  = "postCreated"
	PostReactionUpdatedName          = "postReactionUpdated"
	PostCommentAddedName             = "postCommentAdded"
	PostEditedName                   = "postEdited"
	PostDeletedName                  = "postDeleted"
	PostBookmarkUpdatedName          = "postBookmarkUpdated"
	NewNotificationName              = "newNotification"
	NotificationMarkedAsReadName     = "notificationMarkedAsRead"
	AllNotificationsMarkedAsReadName = "allNotificationsMarkedAsRead"
	TeacherProfileUpdatedName        = "teacherProfileUpdated"
	StudentProfileUpdatedName        = "studentProfileUpdated"
	ProfileUpdatedName               = "profileUpdated"
	UserRegisteredName               = "userRegistered"
	AllUsersName                     = "allUsers"
	AllLessonsName                   = "allLessons"
	DataUpdatedName                  = "dataUpdated"
)

// InboundNames lists every inbound event the engine subscribes to.
var InboundNames = []string{
	SlotCreatedName, SlotBookedName, SlotCancelledName, SlotDeletedName,
	AllSlotsName, ChatCreatedName, ReceiveMessageName, ChatDeletedName,
	ChatMarkedAsReadName, ChatMessagesClearedName, ChatArchivedName,
	ChatUnarchivedName, PostCreatedName, PostReactionUpdatedName,
	PostCommentAddedName, PostEditedName, PostDeletedName,
	PostBookmarkUpdatedName, NewNotificationName, NotificationMarkedAsReadName,
	AllNotificationsMarkedAsReadName, TeacherProfileUpdatedName,
	StudentProfileUpdatedName, ProfileUpdatedName, UserRegisteredName,
	AllUsersName, AllLessonsName, DataUpdatedName,
}

// ErrUnknownEvent is returned by Decode for names outside the closed set.
var ErrUnknownEvent = errors.New("unknown event")

// Inbound is the sealed union of inbound replica events. Every variant lives
// in this package; reconciliation switches over the concrete types.
type Inbound interface {
	isInbound()
}

type SlotCreated struct{ Slot models.Slot }

type SlotBooked struct {
	SlotID          string        `json:"slotId"`
	Lesson          models.Lesson `json:"lesson"`
	BookedStudentID string        `json:"bookedStudentId"`
}

type SlotCancelled struct {
	SlotID   string `json:"slotId"`
	LessonID string `json:"lessonId"`
}

type SlotDeleted struct {
	SlotID string `json:"slotId"`
}

type AllSlots struct{ Slots []models.Slot }

type ChatCreated struct{ Chat models.Chat }

type ReceiveMessage struct {
	ChatID  string         `json:"chatId"`
	Message models.Message `json:"message"`
}

type ChatDeleted struct {
	ChatID string `json:"chatId"`
}

type ChatMarkedAsRead struct {
	ChatID string `json:"chatId"`
}

type ChatMessagesCleared struct {
	ChatID string `json:"chatId"`
}

type ChatArchived struct {
	ChatID string `json:"chatId"`
}

type ChatUnarchived struct {
	ChatID string `json:"chatId"`
}

type PostCreated struct{ Post models.Post }

type PostReactionUpdated struct {
	PostID       string `json:"postId"`
	ReactionType string `json:"reactionType"`
	UserID       string `json:"userId"`
}

type PostCommentAdded struct {
	PostID  string         `json:"postId"`
	Comment models.Comment `json:"comment"`
}

type PostEdited struct {
	PostID  string `json:"postId"`
	NewText string `json:"newText"`
}

type PostDeleted struct {
	PostID string `json:"postId"`
}

// PostBookmarkUpdated carries the authoritative membership after the server
// applied a bookmark toggle, so reapplying it is idempotent.
type PostBookmarkUpdated struct {
	PostID     string `json:"postId"`
	UserID     string `json:"userId"`
	Bookmarked bool   `json:"bookmarked"`
}

type NewNotification struct{ Notification models.Notification }

type NotificationMarkedAsRead struct {
	ID string `json:"id"`
}

type AllNotificationsMarkedAsRead struct {
	UserID string `json:"userId"`
}

type TeacherProfileUpdated struct {
	TeacherID string                `json:"teacherId"`
	Profile   models.TeacherProfile `json:"profile"`
}

type StudentProfileUpdated struct {
	StudentID string                `json:"studentId"`
	Profile   models.StudentProfile `json:"profile"`
}

// ProfileUpdated is the role-generic profile replacement. Profile is kept raw
// so the role decides which document type to decode into.
type ProfileUpdated struct {
	UserID  string          `json:"userId"`
	Role    string          `json:"role"`
	Profile json.RawMessage `json:"profile"`
}

type UserRegistered struct{ User models.User }

type AllUsers struct{ Users []models.User }

type AllLessons struct{ Lessons []models.Lesson }

// DataUpdated is the bulk multi-collection push. Nil fields were absent from
// the payload and leave the corresponding local collection untouched.
type DataUpdated struct {
	TimeSlots       *[]models.Slot                    `json:"timeSlots"`
	Lessons         *[]models.Lesson                  `json:"lessons"`
	Chats           *[]models.Chat                    `json:"chats"`
	Posts           *[]models.Post                    `json:"posts"`
	Notifications   *[]models.Notification            `json:"notifications"`
	TeacherProfiles *map[string]models.TeacherProfile `json:"teacherProfiles"`
	StudentProfiles *map[string]models.StudentProfile `json:"studentProfiles"`
}

func (SlotCreated) isInbound()                  {}
func (SlotBooked) isInbound()                   {}
func (SlotCancelled) isInbound()                {}
func (SlotDeleted) isInbound()                  {}
func (AllSlots) isInbound()                     {}
func (ChatCreated) isInbound()                  {}
func (ReceiveMessage) isInbound()               {}
func (ChatDeleted) isInbound()                  {}
func (ChatMarkedAsRead) isInbound()             {}
func (ChatMessagesCleared) isInbound()          {}
func (ChatArchived) isInbound()                 {}
func (ChatUnarchived) isInbound()               {}
func (PostCreated) isInbound()                  {}
func (PostReactionUpdated) isInbound()          {}
func (PostCommentAdded) isInbound()             {}
func (PostEdited) isInbound()                   {}
func (PostDeleted) isInbound()                  {}
func (PostBookmarkUpdated) isInbound()          {}
func (NewNotification) isInbound()              {}
func (NotificationMarkedAsRead) isInbound()     {}
func (AllNotificationsMarkedAsRead) isInbound() {}
func (TeacherProfileUpdated) isInbound()        {}
func (StudentProfileUpdated) isInbound()        {}
func (ProfileUpdated) isInbound()               {}
func (UserRegistered) isInbound()               {}
func (AllUsers) isInbound()                     {}
func (AllLessons) isInbound()                   {}
func (DataUpdated) isInbound()                  {}

// Decode maps an event name and raw payload to its union variant. Events
// whose payload is the entity itself decode straight into the entity type;
// the rest decode into their wrapper shape.
func Decode(name string, data []byte, u codec.Unmarshaler) (Inbound, error) {
	decode := func(dst any) error {
		if err := u.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("decoding %s: %w", name, err)
		}
		return nil
	}

	switch name {
	case SlotCreatedName:
		var ev SlotCreated
		if err := decode(&ev.Slot); err != nil {
			return nil, err
		}
		return ev, nil
	case SlotBookedName:
		var ev SlotBooked
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case SlotCancelledName:
		var ev SlotCancelled
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case SlotDeletedName:
		var ev SlotDeleted
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case AllSlotsName:
		var ev AllSlots
		if err := decode(&ev.Slots); err != nil {
			return nil, err
		}
		return ev, nil
	case ChatCreatedName:
		var ev ChatCreated
		if err := decode(&ev.Chat); err != nil {
			return nil, err
		}
		return ev, nil
	case ReceiveMessageName:
		var ev ReceiveMessage
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case ChatDeletedName:
		var ev ChatDeleted
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case ChatMarkedAsReadName:
		var ev ChatMarkedAsRead
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case ChatMessagesClearedName:
		var ev ChatMessagesCleared
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case ChatArchivedName:
		var ev ChatArchived
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case ChatUnarchivedName:
		var ev ChatUnarchived
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case PostCreatedName:
		var ev PostCreated
		if err := decode(&ev.Post); err != nil {
			return nil, err
		}
		return ev, nil
	case PostReactionUpdatedName:
		var ev PostReactionUpdated
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case PostCommentAddedName:
		var ev PostCommentAdded
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case PostEditedName:
		var ev PostEdited
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case PostDeletedName:
		var ev PostDeleted
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case PostBookmarkUpdatedName:
		var ev PostBookmarkUpdated
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case NewNotificationName:
		var ev NewNotification
		if err := decode(&ev.Notification); err != nil {
			return nil, err
		}
		return ev, nil
	case NotificationMarkedAsReadName:
		var ev NotificationMarkedAsRead
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case AllNotificationsMarkedAsReadName:
		var ev AllNotificationsMarkedAsRead
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case TeacherProfileUpdatedName:
		var ev TeacherProfileUpdated
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case StudentProfileUpdatedName:
		var ev StudentProfileUpdated
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case ProfileUpdatedName:
		var ev ProfileUpdated
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case UserRegisteredName:
		var ev UserRegistered
		if err := decode(&ev.User); err != nil {
			return nil, err
		}
		return ev, nil
	case AllUsersName:
		var ev AllUsers
		if err := decode(&ev.Users); err != nil {
			return nil, err
		}
		return ev, nil
	case AllLessonsName:
		var ev AllLessons
		if err := decode(&ev.Lessons); err != nil {
			return nil, err
		}
		return ev, nil
	case DataUpdatedName:
		var ev DataUpdated
		if err := decode(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
}
