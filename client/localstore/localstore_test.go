package localstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlms/backend/models"
	"smartlms/backend/seed"
	"smartlms/client/localstore"
)

func newStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"), seed.Data())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMissingBlobsFallBackToBootstrap(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	users, err := store.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(seed.Data().Users))

	courses, err := store.Courses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, len(seed.Data().Courses))

	chats, err := store.ChatSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, chats, "chats have no bootstrap data")
}

func TestUserMutationsPersist(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	user := models.User{ID: 900, Name: "New User", Username: "new.user", Role: models.RoleStudent, EnrolledCourseIDs: []int64{}}
	require.NoError(t, store.AddUser(ctx, user))

	users, err := store.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(seed.Data().Users)+1)

	user.Bio = "updated"
	require.NoError(t, store.UpdateUser(ctx, user))
	users, err = store.Users(ctx)
	require.NoError(t, err)
	for _, u := range users {
		if u.ID == 900 {
			assert.Equal(t, "updated", u.Bio)
		}
	}

	require.NoError(t, store.DeleteUser(ctx, 900))
	users, err = store.Users(ctx)
	require.NoError(t, err)
	for _, u := range users {
		assert.NotEqual(t, int64(900), u.ID)
	}
}

func TestSaveProgressUpsertsByPair(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	first := models.Progress{UserID: 1, CourseID: 5, CompletedLessons: []int64{10}}
	require.NoError(t, store.SaveProgress(ctx, first))

	second := models.Progress{UserID: 1, CourseID: 5, CompletedLessons: []int64{10, 11}}
	require.NoError(t, store.SaveProgress(ctx, second))

	list, err := store.Progress(ctx)
	require.NoError(t, err)

	matches := 0
	for _, p := range list {
		if p.UserID == 1 && p.CourseID == 5 {
			matches++
			assert.Equal(t, []int64{10, 11}, p.CompletedLessons)
		}
	}
	assert.Equal(t, 1, matches, "exactly one record per (user, course) pair")
}

func TestSaveChatSessionUpsertsByID(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	session := models.ChatSession{ID: "s1", CourseID: 101, StudentID: 4}
	require.NoError(t, store.SaveChatSession(ctx, session))

	session.Messages = []models.ChatMessage{{ID: "m1", Content: "hi"}}
	require.NoError(t, store.SaveChatSession(ctx, session))

	chats, err := store.ChatSessions(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Len(t, chats[0].Messages, 1)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, ok, err := store.SessionToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveSessionToken(ctx, "tok"))
	token, ok, err := store.SessionToken(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.ClearSessionToken(ctx))
	_, ok, err = store.SessionToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
