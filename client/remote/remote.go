// Package remote wraps the fixed REST contract exposed by the server. It
// shapes requests and propagates errors; it carries no business logic.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"smartlms/backend/config"
	"smartlms/backend/models"
	"smartlms/backend/seed"
)

// InitPayload is the bulk-fetch response shape of GET /init.
type InitPayload struct {
	Users    []models.User        `json:"users"`
	Courses  []models.Course      `json:"courses"`
	Progress []models.Progress    `json:"progress"`
	Chats    []models.ChatSession `json:"chats"`
}

// Client talks to the remote store. Every request is bounded by the
// configured timeout; the caller decides what a failure means.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New builds a client for the configured API base URL.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.APIBaseURL,
		timeout:    cfg.RequestTimeout,
		httpClient: &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("server error: %d", res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// Init bulk-fetches all four collections.
func (c *Client) Init(ctx context.Context) (*InitPayload, error) {
	var payload InitPayload
	if err := c.do(ctx, http.MethodGet, "/init", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Seed pushes the bootstrap dataset into an empty store.
func (c *Client) Seed(ctx context.Context, dataset seed.Dataset) error {
	return c.do(ctx, http.MethodPost, "/seed", dataset, nil)
}

// AddUser creates a user record.
func (c *Client) AddUser(ctx context.Context, user models.User) error {
	return c.do(ctx, http.MethodPost, "/users", user, nil)
}

// UpdateUser replaces the user record with the same id.
func (c *Client) UpdateUser(ctx context.Context, user models.User) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", user.ID), user, nil)
}

// DeleteUser removes a user record.
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", userID), nil, nil)
}

// AddCourse creates a course record.
func (c *Client) AddCourse(ctx context.Context, course models.Course) error {
	return c.do(ctx, http.MethodPost, "/courses", course, nil)
}

// UpdateCourse replaces the course record with the same id.
func (c *Client) UpdateCourse(ctx context.Context, course models.Course) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/courses/%d", course.ID), course, nil)
}

// DeleteCourse removes a course record.
func (c *Client) DeleteCourse(ctx context.Context, courseID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d", courseID), nil, nil)
}

// SaveProgress upserts a progress record by its (userId, courseId) key.
func (c *Client) SaveProgress(ctx context.Context, progress models.Progress) error {
	return c.do(ctx, http.MethodPost, "/progress", progress, nil)
}

// SaveChatSession upserts a chat session by its id.
func (c *Client) SaveChatSession(ctx context.Context, session models.ChatSession) error {
	return c.do(ctx, http.MethodPost, "/chats", session, nil)
}
