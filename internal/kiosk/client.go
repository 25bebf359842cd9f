package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNetwork is returned for any transport-level failure. Timeouts, refused
// connections and DNS errors are deliberately indistinguishable; the
// terminal offers the same manual retry for all of them.
var ErrNetwork = errors.New("NETWORK_ERROR: could not reach the attendance server")

// APIError is a business failure reported by the backend.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// Student is the display summary returned with every successful call.
type Student struct {
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
	Code      string `json:"student_code"`
}

// Result is the attendance snapshot rendered on the success screen.
type Result struct {
	AttendanceID    string     `json:"attendance_id"`
	Student         Student    `json:"student"`
	CheckinTime     time.Time  `json:"checkin_time"`
	CheckoutTime    *time.Time `json:"checkout_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	BranchName      string     `json:"branch_name"`
}

type envelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   *APIError `json:"error"`
	Data    *Result   `json:"data"`
}

// Client calls the kiosk endpoints for one fixed branch.
type Client struct {
	baseURL  string
	secret   string
	branchID string
	http     *http.Client
}

func NewClient(baseURL, secret, branchID string) *Client {
	return &Client{
		baseURL:  baseURL,
		secret:   secret,
		branchID: branchID,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckIn opens a session for the student.
func (c *Client) CheckIn(ctx context.Context, studentCode, pin string) (*Result, error) {
	return c.post(ctx, "/kiosk/checkin", studentCode, pin)
}

// CheckOut closes the student's open session.
func (c *Client) CheckOut(ctx context.Context, studentCode, pin string) (*Result, error) {
	return c.post(ctx, "/kiosk/checkout", studentCode, pin)
}

func (c *Client) post(ctx context.Context, path, studentCode, pin string) (*Result, error) {
	payload, err := json.Marshal(map[string]string{
		"student_code": studentCode,
		"pin":          pin,
		"branch_id":    c.branchID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Kiosk-Secret", c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ErrNetwork
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, ErrNetwork
	}
	if !env.Success {
		if env.Error != nil {
			return nil, env.Error
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if env.Data == nil {
		return nil, ErrNetwork
	}
	return env.Data, nil
}
