package reports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly/internal/attendance"
)

func TestRenderDailySummaryHTML(t *testing.T) {
	summary := attendance.DaySummary{
		TenantID:       uuid.New(),
		Day:            "2026-03-02",
		Checkins:       42,
		Checkouts:      40,
		StillOpen:      2,
		TotalMinutes:   3180,
		UniqueStudents: 38,
	}

	html, err := RenderDailySummaryHTML(summary, time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Contains(t, html, "2026-03-02")
	require.Contains(t, html, "<td>42</td>")
	require.Contains(t, html, "<td>38</td>")
}

func TestPDFClientRenderHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		_, header, err := r.FormFile("files")
		require.NoError(t, err)
		require.Equal(t, "document.html", header.Filename)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	client := NewPDFClient(srv.URL)
	pdf, err := client.RenderHTML(context.Background(), "<html><body>hi</body></html>")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestPDFClientPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewPDFClient(srv.URL)
	require.NoError(t, client.Ping(context.Background()))
}

func TestPDFClientPingDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewPDFClient(srv.URL)
	require.Error(t, client.Ping(context.Background()))
}

func TestPDFClientRenderHTMLUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewPDFClient(srv.URL)
	_, err := client.RenderHTML(context.Background(), "<html></html>")
	require.Error(t, err)
}
