package models

// Progress tracks one user's state in one course. The composite primary key
// is the central invariant: at most one record per (user, course) pair, in
// every store. Callers always write the complete record; there is no
// field-level merge anywhere below the application layer.
type Progress struct {
	UserID              int64           `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	CourseID            int64           `json:"courseId" gorm:"primaryKey;autoIncrement:false"`
	CompletedLessons    []int64         `json:"completedLessons" gorm:"serializer:json"`
	QuizScores          map[int64]int   `json:"quizScores" gorm:"serializer:json"`
	TimeSpent           map[int64]int64 `json:"timeSpent" gorm:"serializer:json"` // lesson id -> seconds
	BookmarkedLessonIDs []int64         `json:"bookmarkedLessonIds" gorm:"serializer:json"`
}

// NewProgress returns an empty record for the pair, created lazily on the
// first toggle, bookmark, score or time event.
func NewProgress(userID, courseID int64) Progress {
	return Progress{
		UserID:              userID,
		CourseID:            courseID,
		CompletedLessons:    []int64{},
		QuizScores:          map[int64]int{},
		TimeSpent:           map[int64]int64{},
		BookmarkedLessonIDs: []int64{},
	}
}

// Completed reports whether the lesson is marked complete.
func (p Progress) Completed(lessonID int64) bool {
	return containsID(p.CompletedLessons, lessonID)
}

// Bookmarked reports whether the lesson is bookmarked.
func (p Progress) Bookmarked(lessonID int64) bool {
	return containsID(p.BookmarkedLessonIDs, lessonID)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
