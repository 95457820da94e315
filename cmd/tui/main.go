package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/exonizer/internal/config"
	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/service/humanize"
	"github.com/zhouzirui/exonizer/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.GetLogger().Fatalf("failed to load configuration: %v", err)
	}

	// Logs would tear the alt screen; keep only errors and send them to stderr.
	log := logging.InitLogger("error", cfg.Log.Format)
	log.SetOutput(os.Stderr)

	client := humanize.NewClient(cfg.Humanize, humanize.WithLogger(log))
	program := tea.NewProgram(tui.New(ctx, client), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
