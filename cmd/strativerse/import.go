package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/internal/ioaudit"
	"github.com/paleolimbot/strativerse/internal/ioimport"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"github.com/spf13/cobra"
)

var (
	importFormat    string
	importActor     string
	importComment   string
	importBatchSize int
	importNoAuthors bool
	importNoTags    bool
	importKeepIDs   bool
)

func getImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import BibTeX or CSL-JSON bibliographies",
		Long: `Import creates and updates publications, people and authorships
from bibliographic files.

BibTeX entries keep their citation key as the publication slug, so
re-importing the same file updates publications in place. CSL-JSON
entries are matched by DOI and receive generated author-date slugs
(smith19, smith19a, ...).

Author names are resolved through the alias table: a name spelled the
same way always maps to the same person, and new spellings create new
people that can later be merged with 'strativerse combine'.

Bulk CSL-JSON imports are committed in batches; a bad entry aborts
only its own batch.

Examples:
  strativerse import refs.bib
  strativerse import --format csl-json refs.json
  strativerse import --actor mary --comment 'NOAA update' *.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringVar(&importFormat, "format", "auto",
		"input format: bibtex, csl-json, or auto (by extension)")
	cmd.Flags().StringVar(&importActor, "actor", "",
		"who to record in the audit log (default: import)")
	cmd.Flags().StringVar(&importComment, "comment", "",
		"audit comment for this import")
	cmd.Flags().IntVar(&importBatchSize, "batch-size", 0,
		"entries per transaction (default: from config)")
	cmd.Flags().BoolVar(&importNoAuthors, "no-authors", false,
		"do not replace authorships of existing publications")
	cmd.Flags().BoolVar(&importNoTags, "no-tags", false,
		"do not store residual fields as meta tags")
	cmd.Flags().BoolVar(&importKeepIDs, "keep-ids", false,
		"use CSL item ids as slugs instead of generating them")

	return cmd
}

func runImport(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	op, gormDB, err := openDatabase(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	im := ioimport.New(gormDB, ioaudit.New(), &cfg.Import)

	opts := strativerse.ImportOptions{
		UpdateAuthors:     cfg.Import.UpdateAuthors && !importNoAuthors,
		GenerateSlugs:     !importKeepIDs,
		TagResidualFields: !importNoTags,
		BatchSize:         importBatchSize,
		Actor:             importActor,
		Comment:           importComment,
	}

	total := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			err = fmt.Errorf("cannot read %s: %w", path, err)
			gn.PrintErrorMessage(err)
			return err
		}

		format := importFormat
		if format == "auto" {
			format = detectFormat(path)
		}

		gn.Info("Importing <em>%s</em> (%s)...", path, format)

		switch format {
		case "bibtex":
			imported, err := im.ImportBibTeX(ctx, string(data), opts)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			total += len(imported)
		case "csl-json":
			imported, err := im.ImportCSLJSON(ctx, data, opts)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			total += len(imported)
		default:
			err := fmt.Errorf("unknown import format %q", format)
			gn.PrintErrorMessage(err)
			return err
		}
	}

	gn.Info("Imported <em>%d</em> publications from %d file(s).",
		total, len(args))

	return nil
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bib", ".bibtex":
		return "bibtex"
	case ".json":
		return "csl-json"
	default:
		return "bibtex"
	}
}
