package models

import "time"

// SupportCourseID is a sentinel course id marking the admin support channel.
// In that context StudentID holds whichever non-admin user opened the
// channel, which may itself be an instructor.
const SupportCourseID int64 = 0

// ChatMessage captures the sender's name and role at send time so history
// survives later renames and role changes.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   int64     `json:"senderId"`
	SenderName string    `json:"senderName"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatSession holds the append-only message history for one (course,
// student) pair. At most one session exists per pair; the surrogate ID is
// only the storage key for the chats endpoint.
type ChatSession struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	CourseID      int64         `json:"courseId"`
	StudentID     int64         `json:"studentId"`
	Messages      []ChatMessage `json:"messages" gorm:"serializer:json"`
	LastMessageAt time.Time     `json:"lastMessageAt"`
}

// IsSupport reports whether this is the admin support channel session.
func (s ChatSession) IsSupport() bool {
	return s.CourseID == SupportCourseID
}

// Matches reports whether the session belongs to the given pair.
func (s ChatSession) Matches(courseID, studentID int64) bool {
	return s.CourseID == courseID && s.StudentID == studentID
}
