package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/internal/iodb"
	"github.com/paleolimbot/strativerse/internal/ioschema"
	"github.com/spf13/cobra"
)

var forceCreate bool

func getCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema",
		Long: `Create the Strativerse database schema from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation if found
  3. Creates all tables using GORM AutoMigrate

Use --force to skip confirmation and drop existing tables
automatically.

Examples:
  strativerse create
  strativerse create --force
  strativerse create --config custom.yaml`,
		RunE: runCreate,
	}

	cmd.Flags().BoolVar(&forceCreate, "force", false,
		"drop existing tables before creating schema (destructive)")

	return cmd
}

func runCreate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if hasTables {
		if !forceCreate {
			gn.Warn("\nWarning: Database contains existing tables.")
			gn.Warn("Creating the schema will drop ALL existing " +
				"tables and data.\n")
			gn.Message("Do you want to continue? (yes/no): ")

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				gn.Warn("Failed to read user input")
				return err
			}

			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				gn.Info("Aborted. No changes made to the database.")
				return nil
			}
		}

		gn.Info("Dropping all existing tables...")
		if err := op.DropAllTables(ctx); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	sm := ioschema.NewManager(op)

	gn.Info("Creating schema using GORM AutoMigrate...")
	if err := sm.Create(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(`Database schema creation complete!

Next steps:
  - Run 'strativerse import' to import bibliographies
  - Run 'strativerse recache' after bulk edits to refresh caches`)

	return nil
}
