package client_test

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlms/backend/config"
	"smartlms/backend/models"
	"smartlms/backend/seed"
	"smartlms/client"
	"smartlms/client/localstore"
)

// fakeRemote is an in-memory stand-in for the server, just enough of the
// REST contract for the facade.
type fakeRemote struct {
	mu        sync.Mutex
	users     []models.User
	courses   []models.Course
	progress  []models.Progress
	chats     []models.ChatSession
	seedCalls int
}

func (f *fakeRemote) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/init", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"users":    f.users,
			"courses":  f.courses,
			"progress": f.progress,
			"chats":    f.chats,
		})
	})

	mux.HandleFunc("/api/seed", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var dataset seed.Dataset
		if err := json.NewDecoder(r.Body).Decode(&dataset); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.seedCalls++
		f.users = dataset.Users
		f.courses = dataset.Courses
		f.progress = dataset.Progress
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var user models.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.users = append(f.users, user)
		json.NewEncoder(w).Encode(user)
	})

	return mux
}

func (f *fakeRemote) seedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seedCalls
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newLocalStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"), seed.Data())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		APIBaseURL:     baseURL,
		RequestTimeout: time.Second,
		SessionSecret:  "testsecret",
	}
}

func TestFetchAllDataSeedsEmptyStoreExactlyOnce(t *testing.T) {
	fake := &fakeRemote{}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	service := client.NewDataService(testConfig(server.URL+"/api"), newLocalStore(t), testLogger())

	snapshot, err := service.FetchAllData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, client.ModeOnline, snapshot.Mode)
	assert.Len(t, snapshot.Users, len(seed.Data().Users))
	assert.Equal(t, 1, fake.seedCount())

	// The guard is the store being non-empty now, not a client-side flag.
	snapshot, err = service.FetchAllData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, client.ModeOnline, snapshot.Mode)
	assert.Equal(t, 1, fake.seedCount(), "second load must not seed again")
}

func TestFetchAllDataPopulatedStoreDoesNotSeed(t *testing.T) {
	fake := &fakeRemote{
		users: []models.User{{ID: 1, Username: "existing"}},
	}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	service := client.NewDataService(testConfig(server.URL+"/api"), newLocalStore(t), testLogger())

	snapshot, err := service.FetchAllData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, client.ModeOnline, snapshot.Mode)
	assert.Equal(t, 0, fake.seedCount())
	require.Len(t, snapshot.Users, 1)
	assert.Equal(t, "existing", snapshot.Users[0].Username)
}

func TestFetchAllDataTimeoutFallsBackToLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig(server.URL + "/api")
	cfg.RequestTimeout = 50 * time.Millisecond
	service := client.NewDataService(cfg, newLocalStore(t), testLogger())

	snapshot, err := service.FetchAllData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, client.ModeOffline, snapshot.Mode)
	assert.Len(t, snapshot.Users, len(seed.Data().Users), "offline load serves the bootstrap defaults")
}

func TestMutationsSurviveTotalOutage(t *testing.T) {
	// Nothing listens here; every remote call fails immediately.
	cfg := testConfig("http://127.0.0.1:1/api")
	cfg.RequestTimeout = 100 * time.Millisecond
	service := client.NewDataService(cfg, newLocalStore(t), testLogger())
	ctx := context.Background()

	saved := service.SaveProgress(ctx, models.Progress{
		UserID:           1,
		CourseID:         5,
		CompletedLessons: []int64{10},
	})
	assert.Equal(t, []int64{10}, saved.CompletedLessons)

	service.SaveProgress(ctx, models.Progress{
		UserID:           1,
		CourseID:         5,
		CompletedLessons: []int64{10, 11},
	})

	snapshot, err := service.FetchAllData(ctx)
	require.NoError(t, err)
	assert.Equal(t, client.ModeOffline, snapshot.Mode)

	matches := 0
	for _, p := range snapshot.Progress {
		if p.UserID == 1 && p.CourseID == 5 {
			matches++
			assert.Equal(t, []int64{10, 11}, p.CompletedLessons)
		}
	}
	assert.Equal(t, 1, matches)
}

func TestServerErrorTriggersLocalFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	local := newLocalStore(t)
	service := client.NewDataService(testConfig(server.URL+"/api"), local, testLogger())
	ctx := context.Background()

	user := models.User{ID: 777, Username: "offline.user", EnrolledCourseIDs: []int64{}}
	service.AddUser(ctx, user)

	users, err := local.Users(ctx)
	require.NoError(t, err)
	found := false
	for _, u := range users {
		if u.ID == 777 {
			found = true
		}
	}
	assert.True(t, found, "a non-2xx response must divert the write to the local store")
}
