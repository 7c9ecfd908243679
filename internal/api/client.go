package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Error is a non-2xx response from the remote record endpoint. Status carries
// the HTTP status; Code is the machine code from the response body, if any.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("remote error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Note is the remote-canonical record shape.
type Note struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

type CreateNoteRequest struct {
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ModifiedAt time.Time `json:"modified_at"`
}

type UpdateNoteRequest struct {
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ModifiedAt time.Time `json:"modified_at"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Client talks to an owner-filtered note collection endpoint. All requests
// are scoped to the configured user id; the API key is sent both as an apikey
// header and as a bearer credential.
type Client struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, userID string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.userID != ""
}

// UserID returns the owner identifier this client is scoped to.
func (c *Client) UserID() string {
	return c.userID
}

// ListNotes fetches the full remote collection for the owner, newest first.
func (c *Client) ListNotes() ([]Note, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+c.userID)
	q.Set("order", "created_at.desc")

	var notes []Note
	if err := c.do(http.MethodGet, "/notes?"+q.Encode(), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote inserts a note and returns the created representation, including
// the server-assigned id and created time.
func (c *Client) CreateNote(req CreateNoteRequest) (*Note, error) {
	var notes []Note
	if err := c.do(http.MethodPost, "/notes", req, &notes); err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, &Error{Status: http.StatusInternalServerError, Message: "create returned no representation"}
	}
	return &notes[0], nil
}

// UpdateNote patches a note filtered by id and owner. A filter that matches
// zero records means the note was deleted, reassigned, or never belonged to
// this owner; that is reported as a NotFound error, not swallowed.
func (c *Client) UpdateNote(remoteID string, req UpdateNoteRequest) (*Note, error) {
	q := url.Values{}
	q.Set("id", "eq."+remoteID)
	q.Set("user_id", "eq."+c.userID)

	var notes []Note
	if err := c.do(http.MethodPatch, "/notes?"+q.Encode(), req, &notes); err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, &Error{Status: http.StatusNotFound, Message: "note not found or unauthorized"}
	}
	return &notes[0], nil
}

// DeleteNote removes a note filtered by id and owner. The endpoint itself is
// idempotent; a 404 still surfaces as an *Error for the caller to classify.
func (c *Client) DeleteNote(remoteID string) error {
	q := url.Values{}
	q.Set("id", "eq."+remoteID)
	q.Set("user_id", "eq."+c.userID)

	return c.do(http.MethodDelete, "/notes?"+q.Encode(), nil, nil)
}

// Ping probes reachability with a HEAD request against the collection.
func (c *Client) Ping() error {
	q := url.Values{}
	q.Set("user_id", "eq."+c.userID)
	q.Set("limit", "1")

	return c.do(http.MethodHead, "/notes?"+q.Encode(), nil, nil)
}

// Online reports whether the remote endpoint is currently reachable.
func (c *Client) Online() bool {
	return c.Ping() == nil
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Message: resp.Status}
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			if errResp.Message != "" {
				apiErr.Message = errResp.Message
			} else if errResp.Error != "" {
				apiErr.Message = errResp.Error
			}
			apiErr.Code = errResp.Code
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
