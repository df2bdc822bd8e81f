package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/showreel/internal/app"
	"github.com/ayusman/showreel/internal/config"
	"github.com/ayusman/showreel/internal/gallery"
	"github.com/ayusman/showreel/internal/server"
	"github.com/ayusman/showreel/internal/store"
	"github.com/ayusman/showreel/internal/tray"
)

// openApp opens the store and builds the App on top of it.
func openApp(cfg *config.Config) (*app.App, *store.Store, error) {
	st, err := store.New(filepath.Join(cfg.DataDir, "showreel.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	a, err := app.New(app.Config{Settings: cfg, Store: st})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return a, st, nil
}

// autostart starts tracking when it was left on, or when configured to.
func autostart(ctx context.Context, a *app.App, st *store.Store) {
	if !st.Settings().Bool(store.SettingTrackingEnabled, a.Settings().Tracking.AutoStart) {
		return
	}
	go func() {
		if err := a.StartTracking(ctx); err != nil {
			log.Printf("Autostart failed, staying idle: %v", err)
		}
	}()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Println("Showreel - hand-driven image sphere")

	a, st, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Find web directory
	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	textures, err := gallery.NewTextures(gallery.TextureOptions{
		Dir:       filepath.Join(cfg.DataDir, "uploads"),
		URLPrefix: "/uploads/",
		Width:     cfg.Uploads.Width,
		Height:    cfg.Uploads.Height,
		Quality:   cfg.Uploads.Quality,
		Format:    cfg.Uploads.Format,
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		App:       a,
		StaticDir: webDir,
		Textures:  textures,
	})

	go a.Run(ctx)
	autostart(ctx, a, st)
	defer a.StopTracking()

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		errCh <- srv.Serve(ctx, cfg.Server.Addr)
	}()

	if withTray {
		runTray(ctx, cancel, a, st, cfg.Server.Addr)
	}

	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = <-errCh
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// runTray blocks in the tray event loop until Quit or ctx is done.
func runTray(ctx context.Context, cancel context.CancelFunc, a *app.App, st *store.Store, addr string) {
	tr := tray.New(a.IsTracking())
	tr.OnToggle(func(enabled bool) error {
		if err := a.SetTracking(ctx, enabled); err != nil {
			log.Printf("Tracking toggle failed: %v", err)
			return err
		}
		if err := st.Settings().SetBool(store.SettingTrackingEnabled, enabled); err != nil {
			log.Printf("Failed to remember tracking state: %v", err)
		}
		return nil
	})
	tr.OnOpen(func() {
		if err := openBrowser(viewerURL(addr)); err != nil {
			log.Printf("Failed to open viewer: %v", err)
		}
	})
	tr.OnQuit(cancel)
	a.AddSink(tr)

	go func() {
		<-ctx.Done()
		tray.Quit()
	}()
	tr.Run()
}

func viewerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.showreel/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".showreel", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
