package models

import "time"

// LessonType selects how lesson content is rendered.
type LessonType string

const (
	LessonVideo LessonType = "video"
	LessonText  LessonType = "text"
	LessonQuiz  LessonType = "quiz"
)

// Lesson ids are unique within their course. Order in Course.Lessons is
// meaningful: it is the display order and the completion denominator.
type Lesson struct {
	ID      int64      `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Type    LessonType `json:"type"`
}

type Review struct {
	StudentID int64     `json:"studentId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Course struct {
	ID            int64    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	InstructorIDs []int64  `json:"instructorIds" gorm:"serializer:json"`
	Lessons       []Lesson `json:"lessons" gorm:"serializer:json"`
	Reviews       []Review `json:"reviews" gorm:"serializer:json"`
	ImageURL      string   `json:"imageUrl"`
}

// Lesson returns the lesson with the given id, if the course has one.
func (c Course) Lesson(lessonID int64) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.ID == lessonID {
			return l, true
		}
	}
	return Lesson{}, false
}
