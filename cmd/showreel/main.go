package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/showreel/internal/config"
)

var (
	configFile string
	addr       string
	device     int
	dataDir    string
	withTray   bool
	radius     float64
	raw        bool
	force      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "showreel",
		Short: "hand-driven 3D image sphere",
		RunE:  runServe,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", config.DefaultAddr, "HTTP listen address")
	rootCmd.PersistentFlags().IntVar(&device, "device", 0, "camera device index")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.showreel)")
	rootCmd.Flags().BoolVar(&withTray, "tray", false, "show a menu-bar toggle")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the render loop and the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().BoolVar(&withTray, "tray", false, "show a menu-bar toggle")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "track a hand and show the scene state in the terminal",
		RunE:  runPreview,
	}

	layoutCmd := &cobra.Command{
		Use:   "layout [count]",
		Short: "print sphere positions for count items",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayout,
	}
	layoutCmd.Flags().Float64Var(&radius, "radius", 0, "sphere radius (default from config)")
	layoutCmd.Flags().BoolVar(&raw, "raw", false, "skip duplication of small sets")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(serveCmd, previewCmd, layoutCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("device") {
		cfg.Camera.Device = device
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return cfg, nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		path = "showreel.yaml"
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
