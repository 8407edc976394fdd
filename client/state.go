package client

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"smartlms/backend/config"
	"smartlms/backend/models"
	"smartlms/backend/seed"
	"smartlms/client/localstore"
)

// App owns the canonical in-memory collections. Every user action is an
// atomic read-modify-write against one collection, applied optimistically
// and then handed to the persistence facade as a complete entity value.
// A single mutex enforces the single-writer rule.
type App struct {
	mu      sync.Mutex
	data    *DataService
	session *Session
	logger  *log.Logger

	users        []models.User
	courses      []models.Course
	progress     []models.Progress
	chatSessions []models.ChatSession
	mode         Mode

	lastID int64
}

// NewApp wires the state controller to the facade and the session.
func NewApp(cfg *config.Config, local *localstore.Store, logger *log.Logger) *App {
	return &App{
		data:    NewDataService(cfg, local, logger),
		session: NewSession(local, cfg.SessionSecret),
		logger:  logger,
	}
}

// Load hydrates the collections from whichever store answers and resumes
// the persisted session against the loaded users.
func (a *App) Load(ctx context.Context) error {
	snapshot, err := a.data.FetchAllData(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.users = snapshot.Users
	a.courses = snapshot.Courses
	a.progress = snapshot.Progress
	a.chatSessions = snapshot.ChatSessions
	a.mode = snapshot.Mode
	a.session.Resume(ctx, a.users)
	return nil
}

// Mode reports which store served the last load.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Users returns the canonical user collection.
func (a *App) Users() []models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users
}

// Courses returns the canonical course collection.
func (a *App) Courses() []models.Course {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.courses
}

// ChatSessions returns the canonical chat session collection.
func (a *App) ChatSessions() []models.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chatSessions
}

// Progress returns the unique progress record for the pair, if one exists.
func (a *App) Progress(userID, courseID int64) (models.Progress, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.findProgress(userID, courseID)
}

// ProgressRecords returns the canonical progress collection.
func (a *App) ProgressRecords() []models.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progress
}

// CurrentUser returns the session subject, or nil when anonymous.
func (a *App) CurrentUser() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Current()
}

// Login authenticates against the loaded user collection.
func (a *App) Login(ctx context.Context, username, password string) Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Login(ctx, a.users, username, password)
}

// Logout returns the session to anonymous.
func (a *App) Logout(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.Logout(ctx)
}

// Registration is the input for creating an account.
type Registration struct {
	Name        string
	DisplayName string
	Username    string
	Password    string
	Role        models.Role
}

// Register creates a new user unless the username collides
// (case-insensitively) with an existing one. The collision is rejected here,
// before the facade is ever involved.
func (a *App) Register(ctx context.Context, input Registration) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, u := range a.users {
		if strings.EqualFold(u.Username, input.Username) {
			return Result{Success: false, Message: "Username already exists"}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Result{Success: false, Message: "Could not hash password"}
	}

	user := models.User{
		ID:                a.nextID(),
		Name:              input.Name,
		DisplayName:       input.DisplayName,
		Username:          input.Username,
		PasswordHash:      string(hash),
		Role:              input.Role,
		EnrolledCourseIDs: []int64{},
	}

	a.users = append(a.users, user)
	a.data.AddUser(ctx, user)

	return Result{Success: true, Message: "Account created successfully"}
}

// ProfilePatch applies a partial profile update. Optional fields stay
// untouched when nil. This field-level merge exists only here; stores always
// receive the complete entity the patch produced.
type ProfilePatch struct {
	Name           *string
	DisplayName    *string
	Bio            *string
	ContactEmail   *string
	ProfilePicture *string
	CoverPhoto     *string
	SocialLinks    *models.SocialLinks
	Preferences    *models.Preferences
}

func (p ProfilePatch) apply(u *models.User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.ContactEmail != nil {
		u.ContactEmail = *p.ContactEmail
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.CoverPhoto != nil {
		u.CoverPhoto = *p.CoverPhoto
	}
	if p.SocialLinks != nil {
		links := *p.SocialLinks
		u.SocialLinks = &links
	}
	if p.Preferences != nil {
		prefs := *p.Preferences
		u.Preferences = &prefs
	}
}

// UpdateProfile applies the patch to the user and persists the full result.
func (a *App) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.users {
		if a.users[i].ID != userID {
			continue
		}
		patch.apply(&a.users[i])
		a.session.refresh(a.users[i])
		a.data.UpdateUser(ctx, a.users[i])
		return
	}
}

// UpdateUser replaces the canonical record wholesale (admin edits).
func (a *App) UpdateUser(ctx context.Context, user models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.users {
		if a.users[i].ID == user.ID {
			a.users[i] = user
			a.session.refresh(user)
			a.data.UpdateUser(ctx, user)
			return
		}
	}
}

// ChangeUserRole reassigns a user's role.
func (a *App) ChangeUserRole(ctx context.Context, userID int64, role models.Role) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.users {
		if a.users[i].ID == userID {
			a.users[i].Role = role
			a.session.refresh(a.users[i])
			a.data.UpdateUser(ctx, a.users[i])
			return
		}
	}
}

// DeleteUser removes the user. Progress and chat sessions referencing the
// id stay behind as historical records.
func (a *App) DeleteUser(ctx context.Context, userID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := make([]models.User, 0, len(a.users))
	for _, u := range a.users {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	a.users = kept
	a.data.DeleteUser(ctx, userID)
}

// Enroll adds the course to the user's enrollment set. Already enrolled is a
// no-op; the set never holds duplicates. The session's cached copy moves in
// lockstep with the canonical collection.
func (a *App) Enroll(ctx context.Context, userID, courseID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.users {
		if a.users[i].ID != userID || a.users[i].EnrolledIn(courseID) {
			continue
		}
		a.users[i].EnrolledCourseIDs = append(a.users[i].EnrolledCourseIDs, courseID)
		a.session.refresh(a.users[i])
		a.data.UpdateUser(ctx, a.users[i])
	}
}

// ToggleLesson flips the lesson's membership in the completed set. Applying
// it twice restores the original state.
func (a *App) ToggleLesson(ctx context.Context, userID, courseID, lessonID int64) models.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, found := a.findProgress(userID, courseID)
	if !found {
		entry = models.NewProgress(userID, courseID)
	}
	entry.CompletedLessons = toggleID(entry.CompletedLessons, lessonID)

	a.upsertProgress(entry)
	a.data.SaveProgress(ctx, entry)
	return entry
}

// ToggleBookmark flips the lesson's membership in the bookmark set.
func (a *App) ToggleBookmark(ctx context.Context, userID, courseID, lessonID int64) models.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, found := a.findProgress(userID, courseID)
	if !found {
		entry = models.NewProgress(userID, courseID)
	}
	entry.BookmarkedLessonIDs = toggleID(entry.BookmarkedLessonIDs, lessonID)

	a.upsertProgress(entry)
	a.data.SaveProgress(ctx, entry)
	return entry
}

// UpdateQuizScore records the latest attempt. Later attempts overwrite
// earlier ones; there is no max-of-attempts logic.
func (a *App) UpdateQuizScore(ctx context.Context, userID, courseID, lessonID int64, score int) models.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, found := a.findProgress(userID, courseID)
	if !found {
		entry = models.NewProgress(userID, courseID)
	}
	if entry.QuizScores == nil {
		entry.QuizScores = map[int64]int{}
	}
	entry.QuizScores[lessonID] = score

	a.upsertProgress(entry)
	a.data.SaveProgress(ctx, entry)
	return entry
}

// UpdateTimeSpent adds the elapsed seconds for a lesson. The delta is
// wall-clock time measured by the caller and must not be negative.
func (a *App) UpdateTimeSpent(ctx context.Context, userID, courseID, lessonID, seconds int64) models.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, found := a.findProgress(userID, courseID)
	if seconds < 0 {
		a.logger.Printf("ignoring negative time delta for user %d course %d", userID, courseID)
		return entry
	}
	if !found {
		entry = models.NewProgress(userID, courseID)
	}
	if entry.TimeSpent == nil {
		entry.TimeSpent = map[int64]int64{}
	}
	entry.TimeSpent[lessonID] += seconds

	a.upsertProgress(entry)
	a.data.SaveProgress(ctx, entry)
	return entry
}

// NewCourse is the input for creating a course.
type NewCourse struct {
	Title       string
	Description string
	Lessons     []models.Lesson
}

// AddCourse creates a course owned by the instructor, with a generated
// placeholder image.
func (a *App) AddCourse(ctx context.Context, input NewCourse, instructorID int64) models.Course {
	a.mu.Lock()
	defer a.mu.Unlock()

	course := models.Course{
		ID:            a.nextID(),
		Title:         input.Title,
		Description:   input.Description,
		InstructorIDs: []int64{instructorID},
		Lessons:       input.Lessons,
		Reviews:       []models.Review{},
		ImageURL:      seed.CourseImageURL(input.Title),
	}

	a.courses = append(a.courses, course)
	a.data.AddCourse(ctx, course)
	return course
}

// EditCourse replaces the canonical course record wholesale.
func (a *App) EditCourse(ctx context.Context, course models.Course) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.courses {
		if a.courses[i].ID == course.ID {
			a.courses[i] = course
			a.data.UpdateCourse(ctx, course)
			return
		}
	}
}

// DeleteCourse removes the course and, in the same logical operation,
// strips its id from every user's enrollment set. The stores do not provide
// this referential integrity; it lives here.
func (a *App) DeleteCourse(ctx context.Context, courseID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := make([]models.Course, 0, len(a.courses))
	for _, c := range a.courses {
		if c.ID != courseID {
			kept = append(kept, c)
		}
	}
	a.courses = kept
	a.data.DeleteCourse(ctx, courseID)

	for i := range a.users {
		if !a.users[i].EnrolledIn(courseID) {
			continue
		}
		ids := make([]int64, 0, len(a.users[i].EnrolledCourseIDs))
		for _, id := range a.users[i].EnrolledCourseIDs {
			if id != courseID {
				ids = append(ids, id)
			}
		}
		a.users[i].EnrolledCourseIDs = ids
		a.session.refresh(a.users[i])
		a.data.UpdateUser(ctx, a.users[i])
	}
}

// AddReview appends a review to the course, stamped at submission time.
func (a *App) AddReview(ctx context.Context, courseID int64, review models.Review) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.courses {
		if a.courses[i].ID != courseID {
			continue
		}
		review.CreatedAt = time.Now().UTC()
		a.courses[i].Reviews = append(a.courses[i].Reviews, review)
		a.data.UpdateCourse(ctx, a.courses[i])
		return
	}
}

// SendMessage appends a message to the unique session for (courseId,
// studentId), creating the session on first contact. The sender's name and
// role are captured at send time. courseId 0 is the admin support channel
// and is routed identically.
func (a *App) SendMessage(ctx context.Context, courseID, studentID, senderID int64, content string) models.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now().UTC()
	message := models.ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		SenderName: "Unknown",
		Role:       models.RoleStudent,
		Content:    content,
		Timestamp:  now,
	}
	for _, u := range a.users {
		if u.ID == senderID {
			message.SenderName = u.Label()
			message.Role = u.Role
			break
		}
	}

	for i := range a.chatSessions {
		if !a.chatSessions[i].Matches(courseID, studentID) {
			continue
		}
		a.chatSessions[i].Messages = append(a.chatSessions[i].Messages, message)
		a.chatSessions[i].LastMessageAt = now
		a.data.SaveChatSession(ctx, a.chatSessions[i])
		return a.chatSessions[i]
	}

	session := models.ChatSession{
		ID:            uuid.NewString(),
		CourseID:      courseID,
		StudentID:     studentID,
		Messages:      []models.ChatMessage{message},
		LastMessageAt: now,
	}
	a.chatSessions = append(a.chatSessions, session)
	a.data.SaveChatSession(ctx, session)
	return session
}

// BroadcastPreferences posts the student's adaptive-learning preferences
// into the course chat as a plain message.
func (a *App) BroadcastPreferences(ctx context.Context, studentID, courseID int64, prefs models.Preferences) models.ChatSession {
	content := "[System Notification] I have enabled Adaptive Learning Mode.\n" +
		"My Preferences:\n" +
		"- Level: " + prefs.LearningLevel + "\n" +
		"- Style: " + prefs.LearningStyle + "\n" +
		"- Tone: " + prefs.TonePreference
	return a.SendMessage(ctx, courseID, studentID, studentID, content)
}

func (a *App) findProgress(userID, courseID int64) (models.Progress, bool) {
	for _, p := range a.progress {
		if p.UserID == userID && p.CourseID == courseID {
			return p, true
		}
	}
	return models.Progress{}, false
}

// upsertProgress replaces-or-appends by the composite key, keeping exactly
// one in-memory record per pair.
func (a *App) upsertProgress(entry models.Progress) {
	for i := range a.progress {
		if a.progress[i].UserID == entry.UserID && a.progress[i].CourseID == entry.CourseID {
			a.progress[i] = entry
			return
		}
	}
	a.progress = append(a.progress, entry)
}

// toggleID removes the id when present, appends it when absent.
func toggleID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}

// nextID generates a client-assigned id, millisecond-based like the web
// client's, nudged forward on collision within the same millisecond.
func (a *App) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= a.lastID {
		id = a.lastID + 1
	}
	a.lastID = id
	return id
}
