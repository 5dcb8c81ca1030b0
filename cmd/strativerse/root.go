package main

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/internal/ioconfig"
	"github.com/paleolimbot/strativerse/internal/iodb"
	"github.com/paleolimbot/strativerse/internal/iologger"
	"github.com/paleolimbot/strativerse/pkg/config"
	"github.com/paleolimbot/strativerse/pkg/db"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfgFile string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "strativerse",
		Short: "Strativerse curates a paleo research database",
		Long: `Strativerse manages a curated PostgreSQL database of people,
publications, geographic features, physical records and measured
parameters, linked by authorships and references.

Main commands:
  - create:  create the database schema
  - migrate: update the schema to the latest version
  - import:  import BibTeX or CSL-JSON bibliographies
  - combine: merge duplicate people
  - tag:     annotate any entity with key/value tags or files
  - recache: rebuild derived geometry and depth caches

Configuration precedence (highest to lowest):
  1. CLI flags (--host, --port, etc.)
  2. Environment variables (STRATIVERSE_*)
  3. Config file (~/.config/strativerse/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host becomes
  STRATIVERSE_DATABASE_HOST).

  Examples:
    STRATIVERSE_DATABASE_HOST       PostgreSQL host
    STRATIVERSE_DATABASE_PORT       PostgreSQL port
    STRATIVERSE_DATABASE_USER       PostgreSQL user
    STRATIVERSE_DATABASE_PASSWORD   PostgreSQL password
    STRATIVERSE_DATABASE_DATABASE   Database name
    STRATIVERSE_IMPORT_BATCH_SIZE   Import batch size
    STRATIVERSE_LOGGING_LEVEL       Log level (debug/info/warn/error)`,
		Version: fmt.Sprintf("version: %s\nbuild:   %s",
			strativerse.Version, strativerse.Build),
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/strativerse/config.yaml)")

	rootCmd.Flags().BoolP("version", "V", false,
		"version for strativerse")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getImportCmd())
	rootCmd.AddCommand(getCombineCmd())
	rootCmd.AddCommand(getTagCmd())
	rootCmd.AddCommand(getRecacheCmd())

	return rootCmd
}

// bootstrap loads configuration and initializes logging before any
// subcommand runs.
func bootstrap(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		exists, err := ioconfig.ConfigFileExists()
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		if !exists {
			generatedPath, err := ioconfig.GenerateDefaultConfig()
			if err != nil {
				gn.Warn("Could not generate a config file: %v", err)
			} else {
				gn.Info("Generated default config at <em>%s</em>",
					generatedPath)
			}
		}
	}

	result, err := ioconfig.Load(cfgFile)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	cfg = result.Config

	logDir, err := ioconfig.GetConfigDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err := iologger.Init(logDir, &cfg.Logging, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	switch result.Source {
	case "file":
		gn.Info("Using config from <em>%s</em>", result.SourcePath)
	case "defaults+env":
		gn.Info("Using built-in defaults with environment overrides")
	default:
		gn.Info("Using built-in defaults (no config file)")
	}

	return nil
}

// openDatabase connects the pgx operator and opens a GORM handle over
// its pool. The caller closes the operator.
func openDatabase(ctx context.Context) (db.Operator, *gorm.DB, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, nil, err
	}

	gormDB, err := iodb.OpenGORM(op)
	if err != nil {
		op.Close()
		return nil, nil, err
	}

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	return op, gormDB, nil
}
