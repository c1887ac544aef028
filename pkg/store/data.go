package store

import "github.com/tutorlink/tutorsync/pkg/models"

// Collection names the persisted entity collections. The name doubles as the
// persistence key.
type Collection string

const (
	Slots           Collection = "slots"
	Lessons         Collection = "lessons"
	Chats           Collection = "chats"
	Posts           Collection = "posts"
	Notifications   Collection = "notifications"
	StudentProfiles Collection = "studentProfiles"
	TeacherProfiles Collection = "teacherProfiles"
	Users           Collection = "users"
)

// AllCollections lists every collection, in persistence order.
var AllCollections = []Collection{
	Slots, Lessons, Chats, Posts, Notifications,
	StudentProfiles, TeacherProfiles, Users,
}

// Data holds every replicated collection. It is owned by the Store and only
// ever accessed under the Store's single-writer guard.
type Data struct {
	Slots           []models.Slot
	Lessons         []models.Lesson
	Chats           []models.Chat
	Posts           []models.Post
	Notifications   []models.Notification
	StudentProfiles map[string]models.StudentProfile
	TeacherProfiles map[string]models.TeacherProfile
	Users           []models.User
}

func emptyData() Data {
	return Data{
		StudentProfiles: make(map[string]models.StudentProfile),
		TeacherProfiles: make(map[string]models.TeacherProfile),
	}
}

// Slot returns a pointer into the live collection, or nil when absent.
// Valid only inside a Store.Update or Store.View callback.
func (d *Data) Slot(id string) *models.Slot {
	for i := range d.Slots {
		if d.Slots[i].ID == id {
			return &d.Slots[i]
		}
	}
	return nil
}

func (d *Data) Lesson(id string) *models.Lesson {
	for i := range d.Lessons {
		if d.Lessons[i].ID == id {
			return &d.Lessons[i]
		}
	}
	return nil
}

func (d *Data) Chat(id string) *models.Chat {
	for i := range d.Chats {
		if d.Chats[i].ID == id {
			return &d.Chats[i]
		}
	}
	return nil
}

// ChatBetween finds the conversation between two users, in either order.
func (d *Data) ChatBetween(userA, userB string) *models.Chat {
	for i := range d.Chats {
		if d.Chats[i].Between(userA, userB) {
			return &d.Chats[i]
		}
	}
	return nil
}

func (d *Data) Post(id string) *models.Post {
	for i := range d.Posts {
		if d.Posts[i].ID == id {
			return &d.Posts[i]
		}
	}
	return nil
}

func (d *Data) Notification(id string) *models.Notification {
	for i := range d.Notifications {
		if d.Notifications[i].ID == id {
			return &d.Notifications[i]
		}
	}
	return nil
}

// RemoveSlot deletes by ID. Absence is not an error: the removal of an
// already-removed entity reports false and changes nothing.
func (d *Data) RemoveSlot(id string) bool {
	for i := range d.Slots {
		if d.Slots[i].ID == id {
			d.Slots = append(d.Slots[:i], d.Slots[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Data) RemoveLesson(id string) bool {
	for i := range d.Lessons {
		if d.Lessons[i].ID == id {
			d.Lessons = append(d.Lessons[:i], d.Lessons[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Data) RemoveChat(id string) bool {
	for i := range d.Chats {
		if d.Chats[i].ID == id {
			d.Chats = append(d.Chats[:i], d.Chats[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Data) RemovePost(id string) bool {
	for i := range d.Posts {
		if d.Posts[i].ID == id {
			d.Posts = append(d.Posts[:i], d.Posts[i+1:]...)
			return true
		}
	}
	return false
}

// UpsertUser inserts the user or overwrites the entry with the same ID.
func (d *Data) UpsertUser(u models.User) {
	for i := range d.Users {
		if d.Users[i].ID == u.ID {
			d.Users[i] = u
			return
		}
	}
	d.Users = append(d.Users, u)
}

// RebuildUsers derives the user directory from the profile documents.
func (d *Data) RebuildUsers() {
	users := make([]models.User, 0, len(d.TeacherProfiles)+len(d.StudentProfiles))
	for _, p := range d.TeacherProfiles {
		users = append(users, models.User{ID: p.ID, Name: p.Name, Role: models.RoleTeacher})
	}
	for _, p := range d.StudentProfiles {
		users = append(users, models.User{ID: p.ID, Name: p.Name, Role: models.RoleStudent})
	}
	d.Users = users
}
