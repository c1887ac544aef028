package tutorsync

import (
	"github.com/tutorlink/tutorsync/pkg/event"
	"github.com/tutorlink/tutorsync/pkg/models"
	"github.com/tutorlink/tutorsync/pkg/store"
)

// UpdateStudentProfile replaces the student's profile document wholesale.
// Concurrent edits from two devices follow last-writer-wins: the most
// recently applied document fully overwrites the prior one.
func (e *Engine) UpdateStudentProfile(profile models.StudentProfile) {
	if profile.ID == "" {
		return
	}

	e.store.Update(func(d *store.Data) []store.Collection {
		d.StudentProfiles[profile.ID] = profile
		d.UpsertUser(models.User{ID: profile.ID, Name: profile.Name, Role: models.RoleStudent})
		return []store.Collection{store.StudentProfiles, store.Users}
	})

	e.emit(event.UpdateStudentProfile, event.StudentProfilePayload{
		StudentID: profile.ID,
		Profile:   profile,
	})
}

// UpdateTeacherProfile replaces the teacher's profile document wholesale,
// with the same last-writer-wins semantics as UpdateStudentProfile.
func (e *Engine) UpdateTeacherProfile(profile models.TeacherProfile) {
	if profile.ID == "" {
		return
	}

	e.store.Update(func(d *store.Data) []store.Collection {
		d.TeacherProfiles[profile.ID] = profile
		d.UpsertUser(models.User{ID: profile.ID, Name: profile.Name, Role: models.RoleTeacher})
		return []store.Collection{store.TeacherProfiles, store.Users}
	})

	e.emit(event.UpdateTeacherProfile, event.TeacherProfilePayload{
		TeacherID: profile.ID,
		Profile:   profile,
	})
}
