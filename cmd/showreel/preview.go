package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ayusman/showreel/internal/app"
	"github.com/ayusman/showreel/internal/monitor"
)

// previewEvery passes one render frame in previewEvery to the terminal.
const previewEvery = 4

// monitorTracking adapts the App to the monitor's tracking control.
type monitorTracking struct {
	ctx context.Context
	app *app.App
}

func (m monitorTracking) IsTracking() bool { return m.app.IsTracking() }

func (m monitorTracking) SetTracking(enabled bool) error {
	return m.app.SetTracking(m.ctx, enabled)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the terminal belongs to the monitor
	logPath := filepath.Join(cfg.DataDir, "preview.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	a, st, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := monitor.NewSink(previewEvery)
	a.AddSink(sink)

	go a.Run(ctx)
	go func() {
		if err := a.StartTracking(ctx); err != nil {
			log.Printf("Tracking unavailable, showing idle motion: %v", err)
		}
	}()
	defer a.StopTracking()

	p := tea.NewProgram(monitor.NewModel(monitorTracking{ctx: ctx, app: a}))
	go sink.Forward(ctx, p.Send)

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
