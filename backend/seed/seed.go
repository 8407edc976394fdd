// Package seed holds the fixed bootstrap dataset pushed to an empty store on
// first contact.
package seed

import (
	"net/url"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"smartlms/backend/models"
)

// CourseImageURL derives a deterministic placeholder image from a course
// title, matching what the dashboards render for courses without artwork.
func CourseImageURL(title string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(title) +
		"&background=random&size=512&font-size=0.33&bold=true&color=fff"
}

// Dataset is the bootstrap payload for the seed endpoint. Chat sessions are
// never seeded; they exist only once someone sends a message.
type Dataset struct {
	Users    []models.User     `json:"users"`
	Courses  []models.Course   `json:"courses"`
	Progress []models.Progress `json:"progress"`
}

// DefaultPassword is the password every seeded account starts with.
const DefaultPassword = "password"

var (
	hashOnce    sync.Once
	defaultHash string
)

func passwordHash() string {
	hashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			panic(err)
		}
		defaultHash = string(h)
	})
	return defaultHash
}

// Data returns a fresh copy of the bootstrap dataset. Callers may mutate the
// result freely.
func Data() Dataset {
	hash := passwordHash()

	users := []models.User{
		{ID: 1, Name: "Maya Chen (Admin)", Username: "maya.chen", PasswordHash: hash, Role: models.RoleAdmin, EnrolledCourseIDs: []int64{}},
		{ID: 2, Name: "Daniel Okafor (Instructor)", Username: "daniel.okafor", PasswordHash: hash, Role: models.RoleInstructor, EnrolledCourseIDs: []int64{}},
		{ID: 3, Name: "Priya Raman (Instructor)", Username: "priya.raman", PasswordHash: hash, Role: models.RoleInstructor, EnrolledCourseIDs: []int64{}},
		{ID: 4, Name: "Lucas Meyer (Student)", Username: "lucas.meyer", PasswordHash: hash, Role: models.RoleStudent, EnrolledCourseIDs: []int64{101}},
		{ID: 5, Name: "Sofia Alvarez (Student)", Username: "sofia.alvarez", PasswordHash: hash, Role: models.RoleStudent, EnrolledCourseIDs: []int64{}},
		{ID: 6, Name: "Tom Eriksen (Student)", Username: "tom.eriksen", PasswordHash: hash, Role: models.RoleStudent, EnrolledCourseIDs: []int64{}},
	}

	courses := []models.Course{
		{
			ID:            101,
			Title:         "Introduction to Databases",
			Description:   "Relational modelling, SQL and transactions from the ground up.",
			InstructorIDs: []int64{2},
			ImageURL:      CourseImageURL("Introduction to Databases"),
			Lessons: []models.Lesson{
				{ID: 1, Title: "What is a database?", Content: "<p>Tables, rows and keys.</p>", Type: models.LessonText},
				{ID: 2, Title: "Your first query", Content: "https://example.com/videos/first-query", Type: models.LessonVideo},
				{ID: 3, Title: "SQL basics quiz", Content: "SELECT fundamentals", Type: models.LessonQuiz},
			},
			Reviews: []models.Review{},
		},
		{
			ID:            102,
			Title:         "Distributed Systems",
			Description:   "Consensus, replication and the things that go wrong in between.",
			InstructorIDs: []int64{3},
			ImageURL:      CourseImageURL("Distributed Systems"),
			Lessons: []models.Lesson{
				{ID: 1, Title: "Time and ordering", Content: "<p>Clocks, drift and happens-before.</p>", Type: models.LessonText},
				{ID: 2, Title: "Replication strategies", Content: "https://example.com/videos/replication", Type: models.LessonVideo},
			},
			Reviews: []models.Review{},
		},
	}

	progress := []models.Progress{
		{
			UserID:              4,
			CourseID:            101,
			CompletedLessons:    []int64{1},
			QuizScores:          map[int64]int{},
			TimeSpent:           map[int64]int64{1: 420},
			BookmarkedLessonIDs: []int64{},
		},
	}

	return Dataset{Users: users, Courses: courses, Progress: progress}
}
