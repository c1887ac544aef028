// Package store owns the locally replicated entity collections.
//
// Every collection is loaded from the persistence Backend at startup,
// falling back to an empty value when missing or undecodable, and
// re-persisted after every mutation. All access goes through a single
// mutex: mutations from the optimistic mutation API, the reconciliation
// layer, and the resync path serialize on it, which preserves the
// single-writer assumption the reconciliation semantics depend on.
package store

import (
	"sync"

	"github.com/tutorlink/tutorsync/pkg/codec"
	"github.com/tutorlink/tutorsync/pkg/logger"
	"github.com/tutorlink/tutorsync/pkg/models"
)

type Store struct {
	backend Backend
	codec   codec.Codec
	logger  logger.Logger

	mu   sync.Mutex
	data Data
}

func New(backend Backend, c codec.Codec, log logger.Logger) *Store {
	return &Store{
		backend: backend,
		codec:   c,
		logger:  log,
		data:    emptyData(),
	}
}

// Load populates every collection from the backend. A missing or undecodable
// value falls back to the empty collection; Load never fails.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := emptyData()
	s.loadInto(Slots, &d.Slots)
	s.loadInto(Lessons, &d.Lessons)
	s.loadInto(Chats, &d.Chats)
	s.loadInto(Posts, &d.Posts)
	s.loadInto(Notifications, &d.Notifications)
	s.loadInto(StudentProfiles, &d.StudentProfiles)
	s.loadInto(TeacherProfiles, &d.TeacherProfiles)
	s.loadInto(Users, &d.Users)
	if d.StudentProfiles == nil {
		d.StudentProfiles = make(map[string]models.StudentProfile)
	}
	if d.TeacherProfiles == nil {
		d.TeacherProfiles = make(map[string]models.TeacherProfile)
	}
	s.data = d
}

func (s *Store) loadInto(col Collection, dst any) {
	raw, ok := s.backend.Load(string(col))
	if !ok {
		return
	}
	if err := s.codec.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("discarding undecodable persisted collection",
			"collection", col, "error", err)
	}
}

// View runs fn with read access to the collections, under the store lock.
// fn must not retain pointers into the data after it returns.
func (s *Store) View(fn func(*Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// Update runs fn under the store lock and then persists the collections fn
// reports as dirty. A persistence failure is logged and does not undo the
// in-memory mutation, which stands for the rest of the session.
func (s *Store) Update(fn func(*Data) []Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dirty := fn(&s.data)
	s.persist(dirty)
}

func (s *Store) persist(cols []Collection) {
	for _, col := range cols {
		var v any
		switch col {
		case Slots:
			v = s.data.Slots
		case Lessons:
			v = s.data.Lessons
		case Chats:
			v = s.data.Chats
		case Posts:
			v = s.data.Posts
		case Notifications:
			v = s.data.Notifications
		case StudentProfiles:
			v = s.data.StudentProfiles
		case TeacherProfiles:
			v = s.data.TeacherProfiles
		case Users:
			v = s.data.Users
		default:
			s.logger.Warn("unknown collection, not persisting", "collection", col)
			continue
		}

		raw, err := s.codec.Marshal(v)
		if err != nil {
			s.logger.Warn("failed to encode collection", "collection", col, "error", err)
			continue
		}
		if err := s.backend.Save(string(col), string(raw)); err != nil {
			s.logger.Warn("failed to persist collection", "collection", col, "error", err)
		}
	}
}

// Snapshot accessors. Each returns a deep copy of the collection: nested
// slices and maps are cloned too, so a snapshot stays valid while later
// Update calls mutate the live data.

func (s *Store) Slots() []models.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Slot, len(s.data.Slots))
	copy(out, s.data.Slots)
	return out
}

func (s *Store) Lessons() []models.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lesson, len(s.data.Lessons))
	copy(out, s.data.Lessons)
	return out
}

func (s *Store) Chats() []models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Chat, len(s.data.Chats))
	for i, c := range s.data.Chats {
		out[i] = cloneChat(c)
	}
	return out
}

func (s *Store) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, len(s.data.Posts))
	for i, p := range s.data.Posts {
		out[i] = clonePost(p)
	}
	return out
}

func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.data.Notifications))
	copy(out, s.data.Notifications)
	return out
}

func (s *Store) StudentProfiles() map[string]models.StudentProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.StudentProfile, len(s.data.StudentProfiles))
	for k, v := range s.data.StudentProfiles {
		out[k] = v
	}
	return out
}

func (s *Store) TeacherProfiles() map[string]models.TeacherProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.TeacherProfile, len(s.data.TeacherProfiles))
	for k, v := range s.data.TeacherProfiles {
		v.Subjects = append([]string(nil), v.Subjects...)
		out[k] = v
	}
	return out
}

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.data.Users))
	copy(out, s.data.Users)
	return out
}

// Slots, Lessons, Notifications, Users, and StudentProfiles hold only scalar
// fields, so their element copies are already deep. Chats, Posts, and
// TeacherProfiles carry nested slices and maps that must be cloned.

func cloneChat(c models.Chat) models.Chat {
	c.ParticipantIDs = append([]string(nil), c.ParticipantIDs...)
	c.Messages = append([]models.Message(nil), c.Messages...)
	return c
}

func clonePost(p models.Post) models.Post {
	if p.Reactions != nil {
		reactions := make(map[string]string, len(p.Reactions))
		for k, v := range p.Reactions {
			reactions[k] = v
		}
		p.Reactions = reactions
	}
	p.Comments = append([]models.Comment(nil), p.Comments...)
	p.Bookmarks = append([]string(nil), p.Bookmarks...)
	p.Tags = append([]string(nil), p.Tags...)
	return p
}
