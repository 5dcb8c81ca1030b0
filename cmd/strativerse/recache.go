package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/internal/iorecache"
	"github.com/spf13/cobra"
)

var recacheJobs int

func getRecacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recache",
		Short: "Rebuild derived geometry and depth caches",
		Long: `Recache recomputes every derived cache in the database:

  - geometry type and bounding box columns of features and records
  - recursive depths of the feature tree

Normal edits keep these caches fresh; run recache after bulk SQL
changes or after upgrading from a version with different cache rules.
Rows with invalid geometry are reported and left untouched.

Examples:
  strativerse recache
  strativerse recache --jobs 8`,
		RunE: runRecache,
	}

	cmd.Flags().IntVar(&recacheJobs, "jobs", 0,
		"number of concurrent workers (default: from config)")

	return cmd
}

func runRecache(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	op, gormDB, err := openDatabase(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	jobs := cfg.JobsNumber
	if recacheJobs > 0 {
		jobs = recacheJobs
	}

	gn.Info("Recomputing caches with <em>%d</em> workers...", jobs)

	stats, err := iorecache.New(gormDB, jobs).Recache(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(`Recache complete
Features checked:  <em>%d</em>
Records checked:   <em>%d</em>
Bounds rewritten:  <em>%d</em>
Depths rewritten:  <em>%d</em>`,
		stats.Features, stats.Records,
		stats.BoundsChanged, stats.DepthsChanged)

	if len(stats.InvalidWKT) > 0 {
		gn.Warn("Found <em>%d</em> entities with invalid geometry:",
			len(stats.InvalidWKT))
		for _, ref := range stats.InvalidWKT {
			gn.Warn("  %s", ref)
		}
	}

	return nil
}
