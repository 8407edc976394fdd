// Package localstore is the durable offline store: four independently keyed
// JSON blobs (users, courses, progress, chats) in a single SQLite table,
// read-modify-written as whole arrays, plus the persisted session pointer.
package localstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartlms/backend/models"
	"smartlms/backend/seed"
)

const (
	blobUsers    = "users"
	blobCourses  = "courses"
	blobProgress = "progress"
	blobChats    = "chats"
	blobSession  = "session"
)

type blob struct {
	Key  string `gorm:"primaryKey"`
	Data []byte
}

// Store is a GORM-backed SQLite key-value store. Blobs that were never
// written fall back to the bootstrap dataset, the same defaults a fresh
// remote store would be seeded with.
type Store struct {
	db        *gorm.DB
	bootstrap seed.Dataset
}

// Open opens (or creates) the local store at the provided path.
func Open(path string, bootstrap seed.Dataset) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&blob{}); err != nil {
		return nil, err
	}
	return &Store{db: db, bootstrap: bootstrap}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) readBlob(ctx context.Context, key string, out interface{}) (bool, error) {
	var b blob
	err := s.db.WithContext(ctx).First(&b, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b.Data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) writeBlob(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(&blob{Key: key, Data: data}).Error
}

// Users returns the stored user list, or the bootstrap users if nothing was
// ever written.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	found, err := s.readBlob(ctx, blobUsers, &users)
	if err != nil {
		return nil, err
	}
	if !found {
		return s.bootstrap.Users, nil
	}
	return users, nil
}

// Courses returns the stored course list, or the bootstrap courses.
func (s *Store) Courses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	found, err := s.readBlob(ctx, blobCourses, &courses)
	if err != nil {
		return nil, err
	}
	if !found {
		return s.bootstrap.Courses, nil
	}
	return courses, nil
}

// Progress returns the stored progress list, or the bootstrap progress.
func (s *Store) Progress(ctx context.Context) ([]models.Progress, error) {
	var progress []models.Progress
	found, err := s.readBlob(ctx, blobProgress, &progress)
	if err != nil {
		return nil, err
	}
	if !found {
		return s.bootstrap.Progress, nil
	}
	return progress, nil
}

// ChatSessions returns the stored chat sessions. Chats have no bootstrap
// data; a missing blob is an empty list.
func (s *Store) ChatSessions(ctx context.Context) ([]models.ChatSession, error) {
	var chats []models.ChatSession
	if _, err := s.readBlob(ctx, blobChats, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// AddUser appends the user to the stored list.
func (s *Store) AddUser(ctx context.Context, user models.User) error {
	users, err := s.Users(ctx)
	if err != nil {
		return err
	}
	return s.writeBlob(ctx, blobUsers, append(users, user))
}

// UpdateUser replaces the stored record with the same id.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	users, err := s.Users(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
		}
	}
	return s.writeBlob(ctx, blobUsers, users)
}

// DeleteUser removes the record with the given id.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	users, err := s.Users(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	return s.writeBlob(ctx, blobUsers, kept)
}

// AddCourse appends the course to the stored list.
func (s *Store) AddCourse(ctx context.Context, course models.Course) error {
	courses, err := s.Courses(ctx)
	if err != nil {
		return err
	}
	return s.writeBlob(ctx, blobCourses, append(courses, course))
}

// UpdateCourse replaces the stored record with the same id.
func (s *Store) UpdateCourse(ctx context.Context, course models.Course) error {
	courses, err := s.Courses(ctx)
	if err != nil {
		return err
	}
	for i := range courses {
		if courses[i].ID == course.ID {
			courses[i] = course
		}
	}
	return s.writeBlob(ctx, blobCourses, courses)
}

// DeleteCourse removes the record with the given id.
func (s *Store) DeleteCourse(ctx context.Context, courseID int64) error {
	courses, err := s.Courses(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.ID != courseID {
			kept = append(kept, c)
		}
	}
	return s.writeBlob(ctx, blobCourses, kept)
}

// SaveProgress upserts by the (userId, courseId) composite key: replace the
// matching record or append a new one. Never produces a second record for
// the same pair.
func (s *Store) SaveProgress(ctx context.Context, progress models.Progress) error {
	list, err := s.Progress(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].UserID == progress.UserID && list[i].CourseID == progress.CourseID {
			list[i] = progress
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, progress)
	}
	return s.writeBlob(ctx, blobProgress, list)
}

// SaveChatSession upserts by session id: replace the matching session or
// append a new one.
func (s *Store) SaveChatSession(ctx context.Context, session models.ChatSession) error {
	list, err := s.ChatSessions(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].ID == session.ID {
			list[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, session)
	}
	return s.writeBlob(ctx, blobChats, list)
}

// SaveSessionToken persists the signed current-user pointer.
func (s *Store) SaveSessionToken(ctx context.Context, token string) error {
	return s.writeBlob(ctx, blobSession, token)
}

// SessionToken returns the persisted current-user pointer, if any.
func (s *Store) SessionToken(ctx context.Context) (string, bool, error) {
	var token string
	found, err := s.readBlob(ctx, blobSession, &token)
	if err != nil || !found {
		return "", false, err
	}
	return token, token != "", nil
}

// ClearSessionToken removes the persisted current-user pointer.
func (s *Store) ClearSessionToken(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&blob{}, "key = ?", blobSession).Error
}
