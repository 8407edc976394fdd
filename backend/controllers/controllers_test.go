package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"smartlms/backend/config"
	"smartlms/backend/models"
	"smartlms/backend/routes"
	"smartlms/backend/seed"
	"smartlms/backend/utils"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{ServerPort: "5000"}
	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)
	return app
}

type response struct {
	Code int
	Body bytes.Buffer
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	rec := &response{Code: resp.StatusCode}
	_, err = rec.Body.ReadFrom(resp.Body)
	require.NoError(t, err)
	return rec
}

func fetchInit(t *testing.T, app *fiber.App) map[string]json.RawMessage {
	t.Helper()
	rec := doJSON(t, app, "GET", "/api/init", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestInitEmptyThenSeed(t *testing.T) {
	app := newTestApp(t)

	payload := fetchInit(t, app)
	var users []models.User
	require.NoError(t, json.Unmarshal(payload["users"], &users))
	assert.Empty(t, users)

	rec := doJSON(t, app, "POST", "/api/seed", seed.Data())
	assert.Equal(t, fiber.StatusOK, rec.Code)

	payload = fetchInit(t, app)
	require.NoError(t, json.Unmarshal(payload["users"], &users))
	assert.Len(t, users, len(seed.Data().Users))

	var courses []models.Course
	require.NoError(t, json.Unmarshal(payload["courses"], &courses))
	assert.Len(t, courses, len(seed.Data().Courses))
}

func TestSeedReplacesExistingData(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, "POST", "/api/seed", seed.Data())
	require.Equal(t, fiber.StatusOK, rec.Code)
	rec = doJSON(t, app, "POST", "/api/seed", seed.Data())
	require.Equal(t, fiber.StatusOK, rec.Code)

	payload := fetchInit(t, app)
	var users []models.User
	require.NoError(t, json.Unmarshal(payload["users"], &users))
	assert.Len(t, users, len(seed.Data().Users), "seeding twice must not duplicate records")
}

func TestUserCRUD(t *testing.T) {
	app := newTestApp(t)

	user := models.User{ID: 42, Name: "Ada", Username: "ada", Role: models.RoleStudent, EnrolledCourseIDs: []int64{}}
	rec := doJSON(t, app, "POST", "/api/users", user)
	require.Equal(t, fiber.StatusOK, rec.Code)

	// Duplicate id is a conflict, not a silent overwrite.
	rec = doJSON(t, app, "POST", "/api/users", user)
	assert.Equal(t, fiber.StatusConflict, rec.Code)

	user.Bio = "mathematician"
	rec = doJSON(t, app, "PUT", "/api/users/42", user)
	require.Equal(t, fiber.StatusOK, rec.Code)

	var updated models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "mathematician", updated.Bio)

	rec = doJSON(t, app, "PUT", "/api/users/9999", user)
	assert.Equal(t, fiber.StatusNotFound, rec.Code)

	rec = doJSON(t, app, "DELETE", "/api/users/42", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/users", nil)
	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Empty(t, users)
}

func TestCourseCRUD(t *testing.T) {
	app := newTestApp(t)

	course := models.Course{
		ID:            7,
		Title:         "Go Concurrency",
		InstructorIDs: []int64{2},
		Lessons: []models.Lesson{
			{ID: 1, Title: "Goroutines", Content: "<p>go func</p>", Type: models.LessonText},
		},
		Reviews: []models.Review{},
	}
	rec := doJSON(t, app, "POST", "/api/courses", course)
	require.Equal(t, fiber.StatusOK, rec.Code)

	course.Description = "channels and friends"
	rec = doJSON(t, app, "PUT", "/api/courses/7", course)
	require.Equal(t, fiber.StatusOK, rec.Code)

	var updated models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "channels and friends", updated.Description)
	require.Len(t, updated.Lessons, 1)
	assert.Equal(t, models.LessonText, updated.Lessons[0].Type)

	rec = doJSON(t, app, "DELETE", "/api/courses/7", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/courses", nil)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	assert.Empty(t, courses)
}

func TestProgressUpsertKeepsOneRecordPerPair(t *testing.T) {
	app := newTestApp(t)

	first := models.Progress{
		UserID:           1,
		CourseID:         5,
		CompletedLessons: []int64{10},
		QuizScores:       map[int64]int{},
		TimeSpent:        map[int64]int64{},
	}
	rec := doJSON(t, app, "POST", "/api/progress", first)
	require.Equal(t, fiber.StatusOK, rec.Code)

	second := first
	second.CompletedLessons = []int64{10, 11}
	rec = doJSON(t, app, "POST", "/api/progress", second)
	require.Equal(t, fiber.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/progress", nil)
	var list []models.Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1, "upsert must not create a second record for the pair")
	assert.Equal(t, []int64{10, 11}, list[0].CompletedLessons)
}

func TestChatUpsertByID(t *testing.T) {
	app := newTestApp(t)

	session := models.ChatSession{
		ID:        "abc",
		CourseID:  101,
		StudentID: 4,
		Messages: []models.ChatMessage{
			{ID: "m1", SenderID: 4, SenderName: "Lucas", Role: models.RoleStudent, Content: "hi"},
		},
	}
	rec := doJSON(t, app, "POST", "/api/chats", session)
	require.Equal(t, fiber.StatusOK, rec.Code)

	session.Messages = append(session.Messages, models.ChatMessage{
		ID: "m2", SenderID: 2, SenderName: "Daniel", Role: models.RoleInstructor, Content: "hello",
	})
	rec = doJSON(t, app, "POST", "/api/chats", session)
	require.Equal(t, fiber.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/chats", nil)
	var sessions []models.ChatSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	assert.Len(t, sessions[0].Messages, 2)

	rec = doJSON(t, app, "POST", "/api/chats", models.ChatSession{CourseID: 1, StudentID: 2})
	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}
