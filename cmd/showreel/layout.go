package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/showreel/internal/config"
	"github.com/ayusman/showreel/internal/sphere"
)

func runLayout(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("count must be a non-negative integer, got %q", args[0])
	}

	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return err
	}
	r := cfg.Sphere.Radius
	if cmd.Flags().Changed("radius") {
		r = radius
	}
	if r <= 0 {
		return fmt.Errorf("radius must be positive, got %v", r)
	}

	entries := make([]sphere.Entry, n)
	for i := range entries {
		entries[i] = sphere.Entry{ID: fmt.Sprintf("item-%d", i)}
	}
	if !raw {
		entries = sphere.Expand(entries, sphere.Policy{
			Low:    cfg.Sphere.DuplicateLow,
			High:   cfg.Sphere.DuplicateHigh,
			Target: cfg.Sphere.DuplicateTarget,
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tX\tY\tZ")
	for i, p := range sphere.Pack(entries, r) {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.4f\n", i, p.ID, p.Position.X, p.Position.Y, p.Position.Z)
	}
	return w.Flush()
}
