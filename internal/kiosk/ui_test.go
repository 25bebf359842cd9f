package kiosk

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeRunes(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func press(t *testing.T, m Model, key tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

func TestIdleInputRouting(t *testing.T) {
	m := NewModel(NewClient("http://localhost", "s", "b"))

	m = typeRunes(t, m, "STU-001")
	assert.Equal(t, "STU-001", m.codeInput)

	m, _ = press(t, m, tea.KeyTab)
	m = typeRunes(t, m, "12ab34")
	assert.Equal(t, "1234", m.pinInput, "pin field accepts digits only")

	m, _ = press(t, m, tea.KeyBackspace)
	assert.Equal(t, "123", m.pinInput)
}

func TestEnterRequiresBothFields(t *testing.T) {
	m := NewModel(NewClient("http://localhost", "s", "b"))

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Equal(t, stateIdle, m.state)
	assert.Nil(t, cmd)

	m = typeRunes(t, m, "STU-001")
	m, _ = press(t, m, tea.KeyTab)
	m = typeRunes(t, m, "1234")
	m, cmd = press(t, m, tea.KeyEnter)
	assert.Equal(t, stateSubmitting, m.state)
	assert.NotNil(t, cmd)
}

func TestModeToggle(t *testing.T) {
	m := NewModel(NewClient("http://localhost", "s", "b"))
	assert.Equal(t, modeCheckIn, m.mode)

	m, _ = press(t, m, tea.KeyRight)
	assert.Equal(t, modeCheckOut, m.mode)
	m, _ = press(t, m, tea.KeyLeft)
	assert.Equal(t, modeCheckIn, m.mode)
}

func TestSuccessResultArmsCountdown(t *testing.T) {
	m := NewModel(NewClient("http://localhost", "s", "b"))
	m.state = stateSubmitting

	updated, cmd := m.Update(submitResultMsg{result: &Result{Student: Student{FullName: "Jane Doe"}}})
	m = updated.(Model)
	defer m.countdown.Cancel()

	assert.Equal(t, stateSuccess, m.state)
	assert.Equal(t, successReturnSeconds, m.remaining)
	assert.Contains(t, m.message, "Jane Doe")
	require.NotNil(t, m.countdown)
	assert.NotNil(t, cmd)
}

func TestErrorResultShowsFriendlyText(t *testing.T) {
	m := NewModel(NewClient("http://localhost", "s", "b"))
	m.state = stateSubmitting

	updated, _ := m.Update(submitResultMsg{err: &APIError{Code: "INVALID_PIN", Message: "incorrect PIN"}})
	m = updated.(Model)
	defer m.countdown.Cancel()

	assert.Equal(t, stateError, m.state)
	assert.Equal(t, "Incorrect PIN. Please try again.", m.errText)
}

func TestNetworkErrorText(t *testing.T) {
	assert.Equal(t, "Could not reach the server. Please try again.", errorText(ErrNetwork))
}

func TestCountdownDoneReturnsToIdle(t *testing.T) {
	m := NewModel(NewClient("http://localhost", "s", "b"))
	m.state = stateSubmitting
	updated, _ := m.Update(submitResultMsg{result: &Result{Student: Student{FullName: "Jane"}}})
	m = updated.(Model)
	defer m.countdown.Cancel()

	updated, _ = m.Update(countdownDoneMsg{})
	m = updated.(Model)
	assert.Equal(t, stateIdle, m.state)
	assert.Empty(t, m.codeInput)
	assert.Empty(t, m.pinInput)
	assert.Nil(t, m.countdown)
}

func TestKeyDismissesResultScreenEarly(t *testing.T) {
	m := NewModel(NewClient("http://localhost", "s", "b"))
	m.state = stateSubmitting
	updated, _ := m.Update(submitResultMsg{err: ErrNetwork})
	m = updated.(Model)
	countdown := m.countdown

	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, stateIdle, m.state)

	// The cancelled countdown must never complete.
	select {
	case <-countdown.Done():
		t.Fatal("countdown fired after dismissal")
	default:
	}
}
