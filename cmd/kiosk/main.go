package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kelseyhightower/envconfig"

	"github.com/attendly/attendly/internal/kiosk"
)

type config struct {
	APIURL   string `envconfig:"KIOSK_API_URL" default:"http://localhost:8080"`
	Secret   string `envconfig:"KIOSK_SECRET" required:"true"`
	BranchID string `envconfig:"KIOSK_BRANCH_ID" required:"true"`
}

func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	client := kiosk.NewClient(cfg.APIURL, cfg.Secret, cfg.BranchID)
	program := tea.NewProgram(kiosk.NewModel(client), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		slog.Default().Error("kiosk terminal", slog.Any("error", err))
		os.Exit(1)
	}
}
