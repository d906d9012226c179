// Package backend talks to the downstream course service that owns
// student, professor, and course-class records.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// ErrUpstream is returned when the course service is unreachable or
// answers with a non-success status.
var ErrUpstream = errors.New("course service error")

// Person is the projection of a user sent downstream when a role is
// assigned or an assigned user is updated.
type Person struct {
	UserID   int    `json:"userId,omitempty"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
}

// Client is an HTTP client for the course service. Safe for concurrent
// use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the given base URL with a bounded request
// timeout.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// BaseURL returns the configured course service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateStudent registers a new student record downstream and returns
// its identifier.
func (c *Client) CreateStudent(ctx context.Context, person Person) (int, error) {
	return c.createPerson(ctx, "/student", person)
}

// CreateProfessor registers a new professor record downstream and
// returns its identifier.
func (c *Client) CreateProfessor(ctx context.Context, person Person) (int, error) {
	return c.createPerson(ctx, "/professor", person)
}

// StudentIDForUser looks up the downstream student record for an
// already-assigned user.
func (c *Client) StudentIDForUser(ctx context.Context, userID int) (int, error) {
	return c.personIDForUser(ctx, "/student/user", userID)
}

// ProfessorIDForUser looks up the downstream professor record for an
// already-assigned user.
func (c *Client) ProfessorIDForUser(ctx context.Context, userID int) (int, error) {
	return c.personIDForUser(ctx, "/professor/user", userID)
}

// EnrollStudent associates a student with a course class.
func (c *Client) EnrollStudent(ctx context.Context, studentID, classID int) error {
	payload := map[string]int{
		"studentID":     studentID,
		"courseClassID": classID,
	}
	return c.do(ctx, http.MethodPost, "/course-class-student", payload, nil)
}

// AssignProfessor associates a professor with a course class.
func (c *Client) AssignProfessor(ctx context.Context, professorID, classID int) error {
	payload := map[string]int{
		"professorID":   professorID,
		"courseClassID": classID,
	}
	return c.do(ctx, http.MethodPost, "/course-class-professor", payload, nil)
}

// UpdateStudent pushes updated identity fields for an assigned student.
func (c *Client) UpdateStudent(ctx context.Context, userID int, person Person) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/student/%d", userID), person, nil)
}

// UpdateProfessor pushes updated identity fields for an assigned
// professor.
func (c *Client) UpdateProfessor(ctx context.Context, userID int, person Person) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/professor/%d", userID), person, nil)
}

func (c *Client) createPerson(ctx context.Context, path string, person Person) (int, error) {
	var created struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, path, person, &created); err != nil {
		return 0, err
	}
	if created.ID == 0 {
		return 0, fmt.Errorf("%w: missing id in response", ErrUpstream)
	}
	return created.ID, nil
}

func (c *Client) personIDForUser(ctx context.Context, path string, userID int) (int, error) {
	var found struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", path, userID), nil, &found); err != nil {
		return 0, err
	}
	if found.ID == 0 {
		return 0, fmt.Errorf("%w: missing id in response", ErrUpstream)
	}
	return found.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := readErrorMessage(resp.Body)
		if message == "" {
			message = resp.Status
		}
		return fmt.Errorf("%w: %s %s: %s", ErrUpstream, method, path, message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: bad response body: %v", ErrUpstream, err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
