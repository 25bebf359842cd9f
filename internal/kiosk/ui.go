package kiosk

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen states for the terminal flow. Success and Error both auto-return
// to Idle on a countdown.
type screenState int

const (
	stateIdle screenState = iota
	stateSubmitting
	stateSuccess
	stateError
)

type submitMode int

const (
	modeCheckIn submitMode = iota
	modeCheckOut
)

const (
	successReturnSeconds = 5
	errorReturnSeconds   = 8
	submitTimeout        = 15 * time.Second
)

type submitResultMsg struct {
	result *Result
	err    error
}

type countdownTickMsg struct {
	remaining int
}

type countdownDoneMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(1, 2)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).Padding(1, 2)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Padding(1, 2)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(1, 2)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
)

// Model is the bubbletea model for the kiosk terminal.
type Model struct {
	client *Client

	state screenState
	mode  submitMode
	focus int // 0 = student code, 1 = pin

	codeInput string
	pinInput  string

	result    *Result
	message   string
	errText   string
	remaining int
	countdown *Countdown
}

func NewModel(client *Client) Model {
	return Model{client: client}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.countdown != nil {
				m.countdown.Cancel()
			}
			return m, tea.Quit
		}
		switch m.state {
		case stateIdle:
			return m.updateIdle(msg)
		case stateSuccess, stateError:
			// Any key dismisses the result screen early. Cancelling
			// first guarantees the countdown can never fire a second
			// return to idle.
			m.countdown.Cancel()
			return m.reset(), nil
		}
		return m, nil

	case submitResultMsg:
		return m.handleResult(msg)

	case countdownTickMsg:
		m.remaining = msg.remaining
		return m, listenCountdown(m.countdown)

	case countdownDoneMsg:
		return m.reset(), nil
	}
	return m, nil
}

func (m Model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown, tea.KeyUp:
		m.focus = 1 - m.focus
		return m, nil
	case tea.KeyLeft, tea.KeyRight:
		if m.mode == modeCheckIn {
			m.mode = modeCheckOut
		} else {
			m.mode = modeCheckIn
		}
		return m, nil
	case tea.KeyBackspace:
		if m.focus == 0 && len(m.codeInput) > 0 {
			m.codeInput = m.codeInput[:len(m.codeInput)-1]
		} else if m.focus == 1 && len(m.pinInput) > 0 {
			m.pinInput = m.pinInput[:len(m.pinInput)-1]
		}
		return m, nil
	case tea.KeyEnter:
		if strings.TrimSpace(m.codeInput) == "" || m.pinInput == "" {
			return m, nil
		}
		m.state = stateSubmitting
		return m, m.submit()
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if m.focus == 0 && len(m.codeInput) < 50 {
				m.codeInput += string(r)
			} else if m.focus == 1 && r >= '0' && r <= '9' && len(m.pinInput) < 6 {
				m.pinInput += string(r)
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	client := m.client
	mode := m.mode
	code := strings.TrimSpace(m.codeInput)
	pin := m.pinInput
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		var result *Result
		var err error
		if mode == modeCheckIn {
			result, err = client.CheckIn(ctx, code, pin)
		} else {
			result, err = client.CheckOut(ctx, code, pin)
		}
		return submitResultMsg{result: result, err: err}
	}
}

func (m Model) handleResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state = stateError
		m.errText = errorText(msg.err)
		m.remaining = errorReturnSeconds
		m.countdown = NewCountdown(errorReturnSeconds)
		return m, listenCountdown(m.countdown)
	}

	m.state = stateSuccess
	m.result = msg.result
	if m.mode == modeCheckIn {
		m.message = "Welcome, " + msg.result.Student.FullName + "!"
	} else {
		m.message = "Goodbye, " + msg.result.Student.FullName + "!"
	}
	m.remaining = successReturnSeconds
	m.countdown = NewCountdown(successReturnSeconds)
	return m, listenCountdown(m.countdown)
}

func (m Model) reset() Model {
	m.state = stateIdle
	m.codeInput = ""
	m.pinInput = ""
	m.focus = 0
	m.result = nil
	m.message = ""
	m.errText = ""
	m.remaining = 0
	m.countdown = nil
	return m
}

// errorText maps failures to operator-friendly screen text. Network and
// business failures share one channel; only the wording differs.
func errorText(err error) string {
	if errors.Is(err, ErrNetwork) {
		return "Could not reach the server. Please try again."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "INVALID_PIN":
			return "Incorrect PIN. Please try again."
		case "STUDENT_NOT_FOUND":
			return "Student code not recognised."
		case "ALREADY_CHECKED_IN":
			return "You are already checked in."
		case "NOT_CHECKED_IN":
			return "You are not checked in."
		case "BRANCH_NOT_FOUND":
			return "This terminal is misconfigured. Please tell a staff member."
		}
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}

func listenCountdown(c *Countdown) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case remaining, ok := <-c.Ticks():
			if ok {
				return countdownTickMsg{remaining: remaining}
			}
			select {
			case <-c.Done():
				return countdownDoneMsg{}
			default:
				return nil
			}
		case <-c.Done():
			return countdownDoneMsg{}
		}
	}
}

func (m Model) View() string {
	switch m.state {
	case stateSubmitting:
		return titleStyle.Render("School Attendance") + "\n\n" +
			boxStyle.Render("Submitting...") + "\n"
	case stateSuccess:
		return m.viewSuccess()
	case stateError:
		return titleStyle.Render("School Attendance") + "\n" +
			errorStyle.Render(m.errText) + "\n" +
			helpStyle.Render(countdownLine(m.remaining)+"  ·  press any key to try again")
	}
	return m.viewIdle()
}

func (m Model) viewIdle() string {
	code := m.codeInput
	pin := strings.Repeat("•", len(m.pinInput))

	codeLabel := labelStyle.Render("Student code: ")
	pinLabel := labelStyle.Render("PIN:          ")
	if m.focus == 0 {
		codeLabel = focusStyle.Render("Student code: ")
		code += "▌"
	} else {
		pinLabel = focusStyle.Render("PIN:          ")
		pin += "▌"
	}

	action := "[ Check In ]"
	if m.mode == modeCheckOut {
		action = "[ Check Out ]"
	}

	return titleStyle.Render("School Attendance") + "\n" +
		boxStyle.Render(codeLabel+code+"\n"+pinLabel+pin+"\n\n"+focusStyle.Render(action)) + "\n" +
		helpStyle.Render("tab: switch field  ·  ←/→: check in/out  ·  enter: submit")
}

func (m Model) viewSuccess() string {
	lines := []string{m.message}
	if m.result != nil {
		if m.result.DurationMinutes != nil {
			lines = append(lines, "Time in school: "+FormatDuration(*m.result.DurationMinutes))
		}
		if m.result.BranchName != "" {
			lines = append(lines, labelStyle.Render(m.result.BranchName))
		}
	}
	return titleStyle.Render("School Attendance") + "\n" +
		successStyle.Render(strings.Join(lines, "\n")) + "\n" +
		helpStyle.Render(countdownLine(m.remaining))
}

func countdownLine(remaining int) string {
	if remaining == 1 {
		return "Returning in 1 second"
	}
	return "Returning in " + strconv.Itoa(remaining) + " seconds"
}
