package models

// Role classifies what a user can see and do.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
	RoleAdmin      Role = "Admin"
)

// Preferences drives the adaptive-learning prompts. All fields are free-form
// labels chosen in the UI.
type Preferences struct {
	LearningLevel  string `json:"learningLevel"`
	LearningStyle  string `json:"learningStyle"`
	TonePreference string `json:"tonePreference"`
	PacePreference string `json:"pacePreference"`
}

type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// User is keyed by a client-assigned numeric id, not an autoincrement column,
// so records keep their identity across the remote and local stores.
type User struct {
	ID                int64        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name              string       `json:"name"`
	DisplayName       string       `json:"displayName,omitempty"`
	Username          string       `json:"username" gorm:"uniqueIndex"`
	PasswordHash      string       `json:"passwordHash,omitempty"`
	Role              Role         `json:"role"`
	EnrolledCourseIDs []int64      `json:"enrolledCourseIds" gorm:"serializer:json"`
	ProfilePicture    string       `json:"profilePicture,omitempty"`
	CoverPhoto        string       `json:"coverPhoto,omitempty"`
	Bio               string       `json:"bio,omitempty"`
	ContactEmail      string       `json:"contactEmail,omitempty"`
	SocialLinks       *SocialLinks `json:"socialLinks,omitempty" gorm:"serializer:json"`
	Preferences       *Preferences `json:"preferences,omitempty" gorm:"serializer:json"`
}

// Label returns the name shown in chat messages and dashboards.
func (u User) Label() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Name
}

// EnrolledIn reports whether the user is enrolled in the given course.
func (u User) EnrolledIn(courseID int64) bool {
	for _, id := range u.EnrolledCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
