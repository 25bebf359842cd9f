package reports

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/attendly/attendly/internal/attendance"
)

// PDFClient wraps interactions with the Gotenberg API.
type PDFClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPDFClient(baseURL string) *PDFClient {
	return &PDFClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ping checks if the remote Gotenberg service is available.
func (c *PDFClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderHTML converts raw HTML into a PDF document using Gotenberg.
func (c *PDFClient) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "document.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, bytes.NewBufferString(html)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/forms/chromium/convert/html", c.baseURL), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("render failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

var dailyReportTmpl = template.Must(template.New("daily").Parse(`<html>
<head><title>Daily Attendance Summary</title></head>
<body>
<h1>Daily Attendance Summary</h1>
<p>Day: {{.Summary.Day}} &middot; Generated at {{.GeneratedAt}}</p>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Check-ins</th><th>Check-outs</th><th>Still open</th><th>Unique students</th><th>Total minutes</th></tr>
<tr><td>{{.Summary.Checkins}}</td><td>{{.Summary.Checkouts}}</td><td>{{.Summary.StillOpen}}</td><td>{{.Summary.UniqueStudents}}</td><td>{{.Summary.TotalMinutes}}</td></tr>
</table>
</body>
</html>`))

// RenderDailySummaryHTML builds the printable HTML for one day's summary.
func RenderDailySummaryHTML(summary attendance.DaySummary, generatedAt time.Time) (string, error) {
	var buf bytes.Buffer
	err := dailyReportTmpl.Execute(&buf, struct {
		Summary     attendance.DaySummary
		GeneratedAt string
	}{Summary: summary, GeneratedAt: generatedAt.Format(time.RFC1123)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
