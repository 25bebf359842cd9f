package kiosk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCheckInSendsSecretAndBranch(t *testing.T) {
	var gotSecret string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Kiosk-Secret")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(envelope{
			Success: true,
			Message: "Checked in",
			Data: &Result{
				AttendanceID: "a-1",
				Student:      Student{StudentID: "s-1", FullName: "Jane Doe", Code: "STU-001"},
				CheckinTime:  time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC),
				BranchName:   "Main Campus",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "terminal-secret", "branch-1")
	result, err := client.CheckIn(context.Background(), "STU-001", "1234")
	require.NoError(t, err)

	assert.Equal(t, "terminal-secret", gotSecret)
	assert.Equal(t, map[string]string{
		"student_code": "STU-001",
		"pin":          "1234",
		"branch_id":    "branch-1",
	}, gotBody)
	assert.Equal(t, "Jane Doe", result.Student.FullName)
	assert.Equal(t, "Main Campus", result.BranchName)
}

func TestClientCheckOutParsesDuration(t *testing.T) {
	checkout := time.Date(2026, 3, 9, 10, 5, 0, 0, time.UTC)
	duration := 125

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope{
			Success: true,
			Data: &Result{
				AttendanceID:    "a-1",
				Student:         Student{FullName: "Jane Doe"},
				CheckinTime:     time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC),
				CheckoutTime:    &checkout,
				DurationMinutes: &duration,
				BranchName:      "Main Campus",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "s", "b")
	result, err := client.CheckOut(context.Background(), "STU-001", "1234")
	require.NoError(t, err)
	require.NotNil(t, result.DurationMinutes)
	assert.Equal(t, 125, *result.DurationMinutes)
	assert.Equal(t, "2h 5m", FormatDuration(*result.DurationMinutes))
}

func TestClientSurfacesBusinessError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(envelope{
			Success: false,
			Error:   &APIError{Code: "INVALID_PIN", Message: "incorrect PIN"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "s", "b")
	_, err := client.CheckIn(context.Background(), "STU-001", "9999")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_PIN", apiErr.Code)
}

func TestClientCollapsesTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "s", "b")
	_, err := client.CheckIn(context.Background(), "STU-001", "1234")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClientTreatsGarbageBodyAsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "s", "b")
	_, err := client.CheckIn(context.Background(), "STU-001", "1234")
	assert.ErrorIs(t, err, ErrNetwork)
}
