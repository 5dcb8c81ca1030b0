package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/internal/ioaudit"
	"github.com/paleolimbot/strativerse/internal/iocombine"
	"github.com/spf13/cobra"
)

var (
	combineActor   string
	combineComment string
)

func getCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine ID ID...",
		Short: "Merge duplicate people into one",
		Long: `Combine merges two or more people into one.

The person with the most publication authorships survives (ties break
by argument order). The survivor absorbs every alias, authorship,
contact record and annotation of the others, and the others are
deleted. The whole merge is one atomic, audited operation.

Examples:
  strativerse combine 12 45
  strativerse combine --comment 'same person, typo' 12 45 102`,
		Args: cobra.MinimumNArgs(2),
		RunE: runCombine,
	}

	cmd.Flags().StringVar(&combineActor, "actor", "curator",
		"who to record in the audit log")
	cmd.Flags().StringVar(&combineComment, "comment", "",
		"audit comment for this merge")

	return cmd
}

func runCombine(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			err = fmt.Errorf("not a person ID: %q", arg)
			gn.PrintErrorMessage(err)
			return err
		}
		ids = append(ids, uint(id))
	}

	op, gormDB, err := openDatabase(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	c := iocombine.New(gormDB, ioaudit.New())

	merged, err := c.Combine(ctx, ids, combineActor, combineComment)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Combined <em>%d</em> people into <em>%s</em> (ID %d).",
		len(ids), merged.Name(), merged.ID)
	gn.Info("The merged person now has %d aliases.", len(merged.Aliases))

	return nil
}
