package tutorsync

import (
	"encoding/json"

	"github.com/tutorlink/tutorsync/pkg/event"
	"github.com/tutorlink/tutorsync/pkg/models"
	"github.com/tutorlink/tutorsync/pkg/store"
)

// inboundHandler adapts a raw transport payload into the event union and
// applies it. Undecodable payloads are logged and dropped; local state is
// never touched by an event that failed to decode.
func (e *Engine) inboundHandler(name string) func(json.RawMessage) {
	return func(data json.RawMessage) {
		ev, err := event.Decode(name, data, e.codec)
		if err != nil {
			e.log.Warn("dropping undecodable inbound event", "event", name, "error", err)
			return
		}
		e.apply(ev)
	}
}

// apply reconciles one inbound replica event with the local store. The
// switch is total over the closed event union.
//
// Creation events insert only when the ID is absent, which absorbs the
// server echoing back a locally originated creation. Update events overwrite
// wholesale (last-writer-wins). Compound events touch all affected
// collections inside one store update, so no observer can see an
// intermediate state. Deletes treat absence as success.
func (e *Engine) apply(ev event.Inbound) {
	switch ev := ev.(type) {
	case event.SlotCreated:
		e.store.Update(func(d *store.Data) []store.Collection {
			if d.Slot(ev.Slot.ID) != nil {
				return nil
			}
			d.Slots = append(d.Slots, ev.Slot)
			return []store.Collection{store.Slots}
		})

	case event.SlotBooked:
		e.store.Update(func(d *store.Data) []store.Collection {
			if d.Lesson(ev.Lesson.ID) == nil {
				d.Lessons = append(d.Lessons, ev.Lesson)
			}
			if slot := d.Slot(ev.SlotID); slot != nil {
				slot.IsBooked = true
				slot.BookedStudentID = ev.BookedStudentID
			}
			return []store.Collection{store.Slots, store.Lessons}
		})

	case event.SlotCancelled:
		e.store.Update(func(d *store.Data) []store.Collection {
			d.RemoveLesson(ev.LessonID)
			if slot := d.Slot(ev.SlotID); slot != nil {
				slot.IsBooked = false
				slot.BookedStudentID = ""
			}
			return []store.Collection{store.Slots, store.Lessons}
		})

	case event.SlotDeleted:
		e.store.Update(func(d *store.Data) []store.Collection {
			d.RemoveSlot(ev.SlotID)
			return []store.Collection{store.Slots}
		})

	case event.AllSlots:
		e.store.Update(func(d *store.Data) []store.Collection {
			d.Slots = ev.Slots
			return []store.Collection{store.Slots}
		})

	case event.ChatCreated:
		e.store.Update(func(d *store.Data) []store.Collection {
			if d.Chat(ev.Chat.ID) != nil {
				return nil
			}
			d.Chats = append(d.Chats, ev.Chat)
			return []store.Collection{store.Chats}
		})

	case event.ReceiveMessage:
		e.store.Update(func(d *store.Data) []store.Collection {
			chat := d.Chat(ev.ChatID)
			if chat == nil {
				return nil
			}
			for _, m := range chat.Messages {
				if m.ID == ev.Message.ID {
					return nil
				}
			}
			chat.Append(ev.Message)
			return []store.Collection{store.Chats}
		})

	case event.ChatDeleted:
		e.store.Update(func(d *store.Data) []store.Collection {
			d.RemoveChat(ev.ChatID)
			return []store.Collection{store.Chats}
		})

	case event.ChatMarkedAsRead:
		e.store.Update(func(d *store.Data) []store.Collection {
			chat := d.Chat(ev.ChatID)
			if chat == nil {
				return nil
			}
			for i := range chat.Messages {
				chat.Messages[i].IsRead = true
			}
			return []store.Collection{store.Chats}
		})

	case event.ChatMessagesCleared:
		e.store.Update(func(d *store.Data) []store.Collection {
			chat := d.Chat(ev.ChatID)
			if chat == nil {
				return nil
			}
			chat.Messages = nil
			return []store.Collection{store.Chats}
		})

	case event.ChatArchived:
		e.setChatArchived(ev.ChatID, true)

	case event.ChatUnarchived:
		e.setChatArchived(ev.ChatID, false)

	case event.PostCreated:
		e.store.Update(func(d *store.Data) []store.Collection {
			if d.Post(ev.Post.ID) != nil {
				return nil
			}
			d.Posts = append(d.Posts, ev.Post)
			return []store.Collection{store.Posts}
		})

	case event.PostReactionUpdated:
		e.store.Update(func(d *store.Data) []store.Collection {
			post := d.Post(ev.PostID)
			if post == nil {
				return nil
			}
			if ev.ReactionType == "" {
				delete(post.Reactions, ev.UserID)
			} else {
				if post.Reactions == nil {
					post.Reactions = make(map[string]string)
				}
				post.Reactions[ev.UserID] = ev.ReactionType
			}
			return []store.Collection{store.Posts}
		})

	case event.PostCommentAdded:
		e.store.Update(func(d *store.Data) []store.Collection {
			post := d.Post(ev.PostID)
			if post == nil {
				return nil
			}
			for _, c := range post.Comments {
				if c.ID == ev.Comment.ID {
					return nil
				}
			}
			post.Comments = append(post.Comments, ev.Comment)
			return []store.Collection{store.Posts}
		})

	case event.PostEdited:
		e.store.Update(func(d *store.Data) []store.Collection {
			post := d.Post(ev.PostID)
			if post == nil {
				return nil
			}
			post.Text = ev.NewText
			post.Tags = models.ExtractTags(ev.NewText)
			return []store.Collection{store.Posts}
		})

	case event.PostDeleted:
		e.store.Update(func(d *store.Data) []store.Collection {
			d.RemovePost(ev.PostID)
			return []store.Collection{store.Posts}
		})

	case event.PostBookmarkUpdated:
		e.store.Update(func(d *store.Data) []store.Collection {
			post := d.Post(ev.PostID)
			if post == nil {
				return nil
			}
			setBookmark(post, ev.UserID, ev.Bookmarked)
			return []store.Collection{store.Posts}
		})

	case event.NewNotification:
		e.store.Update(func(d *store.Data) []store.Collection {
			if d.Notification(ev.Notification.ID) != nil {
				return nil
			}
			d.Notifications = append(d.Notifications, ev.Notification)
			return []store.Collection{store.Notifications}
		})

	case event.NotificationMarkedAsRead:
		e.store.Update(func(d *store.Data) []store.Collection {
			n := d.Notification(ev.ID)
			if n == nil || n.IsRead {
				return nil
			}
			n.IsRead = true
			return []store.Collection{store.Notifications}
		})

	case event.AllNotificationsMarkedAsRead:
		e.store.Update(func(d *store.Data) []store.Collection {
			changed := false
			for i := range d.Notifications {
				if d.Notifications[i].UserID == ev.UserID && !d.Notifications[i].IsRead {
					d.Notifications[i].IsRead = true
					changed = true
				}
			}
			if !changed {
				return nil
			}
			return []store.Collection{store.Notifications}
		})

	case event.TeacherProfileUpdated:
		e.store.Update(func(d *store.Data) []store.Collection {
			profile := ev.Profile
			if profile.ID == "" {
				profile.ID = ev.TeacherID
			}
			d.TeacherProfiles[profile.ID] = profile
			d.UpsertUser(models.User{ID: profile.ID, Name: profile.Name, Role: models.RoleTeacher})
			return []store.Collection{store.TeacherProfiles, store.Users}
		})

	case event.StudentProfileUpdated:
		e.store.Update(func(d *store.Data) []store.Collection {
			profile := ev.Profile
			if profile.ID == "" {
				profile.ID = ev.StudentID
			}
			d.StudentProfiles[profile.ID] = profile
			d.UpsertUser(models.User{ID: profile.ID, Name: profile.Name, Role: models.RoleStudent})
			return []store.Collection{store.StudentProfiles, store.Users}
		})

	case event.ProfileUpdated:
		e.applyGenericProfile(ev)

	case event.UserRegistered:
		e.store.Update(func(d *store.Data) []store.Collection {
			d.UpsertUser(ev.User)
			return []store.Collection{store.Users}
		})

	case event.AllUsers:
		e.store.Update(func(d *store.Data) []store.Collection {
			d.Users = ev.Users
			return []store.Collection{store.Users}
		})

	case event.AllLessons:
		e.store.Update(func(d *store.Data) []store.Collection {
			d.Lessons = ev.Lessons
			return []store.Collection{store.Lessons}
		})

	case event.DataUpdated:
		e.applyBulkUpdate(ev)
	}
}

func (e *Engine) setChatArchived(chatID string, archived bool) {
	e.store.Update(func(d *store.Data) []store.Collection {
		chat := d.Chat(chatID)
		if chat == nil {
			return nil
		}
		chat.Archived = archived
		return []store.Collection{store.Chats}
	})
}

func setBookmark(post *models.Post, userID string, bookmarked bool) {
	for i, id := range post.Bookmarks {
		if id == userID {
			if !bookmarked {
				post.Bookmarks = append(post.Bookmarks[:i], post.Bookmarks[i+1:]...)
			}
			return
		}
	}
	if bookmarked {
		post.Bookmarks = append(post.Bookmarks, userID)
	}
}

// applyGenericProfile routes the role-generic profile replacement to the
// right collection, decoding the raw document with the role in hand.
func (e *Engine) applyGenericProfile(ev event.ProfileUpdated) {
	switch ev.Role {
	case models.RoleTeacher:
		var profile models.TeacherProfile
		if err := e.codec.Unmarshal(ev.Profile, &profile); err != nil {
			e.log.Warn("dropping undecodable teacher profile", "userId", ev.UserID, "error", err)
			return
		}
		e.apply(event.TeacherProfileUpdated{TeacherID: ev.UserID, Profile: profile})
	case models.RoleStudent:
		var profile models.StudentProfile
		if err := e.codec.Unmarshal(ev.Profile, &profile); err != nil {
			e.log.Warn("dropping undecodable student profile", "userId", ev.UserID, "error", err)
			return
		}
		e.apply(event.StudentProfileUpdated{StudentID: ev.UserID, Profile: profile})
	default:
		e.log.Warn("profile update with unknown role", "userId", ev.UserID, "role", ev.Role)
	}
}

// applyBulkUpdate replaces the collections present in the push, leaving the
// rest untouched, in one store update.
func (e *Engine) applyBulkUpdate(ev event.DataUpdated) {
	e.store.Update(func(d *store.Data) []store.Collection {
		var dirty []store.Collection
		if ev.TimeSlots != nil {
			d.Slots = *ev.TimeSlots
			dirty = append(dirty, store.Slots)
		}
		if ev.Lessons != nil {
			d.Lessons = *ev.Lessons
			dirty = append(dirty, store.Lessons)
		}
		if ev.Chats != nil {
			d.Chats = *ev.Chats
			dirty = append(dirty, store.Chats)
		}
		if ev.Posts != nil {
			d.Posts = *ev.Posts
			dirty = append(dirty, store.Posts)
		}
		if ev.Notifications != nil {
			d.Notifications = *ev.Notifications
			dirty = append(dirty, store.Notifications)
		}
		profilesChanged := false
		if ev.TeacherProfiles != nil {
			d.TeacherProfiles = *ev.TeacherProfiles
			if d.TeacherProfiles == nil {
				d.TeacherProfiles = make(map[string]models.TeacherProfile)
			}
			dirty = append(dirty, store.TeacherProfiles)
			profilesChanged = true
		}
		if ev.StudentProfiles != nil {
			d.StudentProfiles = *ev.StudentProfiles
			if d.StudentProfiles == nil {
				d.StudentProfiles = make(map[string]models.StudentProfile)
			}
			dirty = append(dirty, store.StudentProfiles)
			profilesChanged = true
		}
		if profilesChanged {
			d.RebuildUsers()
			dirty = append(dirty, store.Users)
		}
		return dirty
	})
}
