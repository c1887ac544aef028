package models

// User roles.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// StudentProfile is a whole-document replicated profile keyed by user ID.
// There is no field-level merge: the most recent write wins wholesale.
type StudentProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Grade  string `json:"grade,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

// TeacherProfile is the teacher counterpart of StudentProfile, with the same
// whole-document replication semantics.
type TeacherProfile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email,omitempty"`
	Avatar     string   `json:"avatar,omitempty"`
	Subjects   []string `json:"subjects,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	HourlyRate int      `json:"hourlyRate,omitempty"`
}

// User is a derived directory entry rebuilt from the profile documents.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
