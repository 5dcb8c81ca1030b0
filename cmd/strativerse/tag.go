package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/internal/ioannotate"
	"github.com/paleolimbot/strativerse/internal/ioaudit"
	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/spf13/cobra"
)

var tagComment string

func getTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Annotate entities with tags and file attachments",
		Long: `Tag attaches generic key/value annotations to any entity.

Every entity kind (person, publication, feature, record, parameter)
accepts tags. A tag is addressed by its owner, a type that groups
related tags, and a key of letters, digits and underscores. The
importer uses the "meta" type for residual bibliographic fields.

Examples:
  strativerse tag add publication 17 meta volume 12
  strativerse tag ls publication 17
  strativerse tag ls publication 17 meta
  strativerse tag rm publication 17 meta volume
  strativerse tag file record 3 data raw_counts file-abc123 counts.csv`,
	}

	cmd.PersistentFlags().StringVar(&tagComment, "comment", "",
		"free-form comment stored with the annotation")

	cmd.AddCommand(getTagAddCmd())
	cmd.AddCommand(getTagLsCmd())
	cmd.AddCommand(getTagRmCmd())
	cmd.AddCommand(getTagFileCmd())

	return cmd
}

func getTagAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add KIND ID TYPE KEY VALUE",
		Short: "Add a key/value tag to an entity",
		Args:  cobra.ExactArgs(5),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()

			kind, id, err := parseOwner(args[0], args[1])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			op, gormDB, err := openDatabase(ctx)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			ann := ioannotate.New(gormDB, ioaudit.New())
			tag, err := ann.Attach(ctx, kind, id,
				args[2], args[3], args[4], tagComment)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			gn.Info("Tagged %s <em>%d</em> with <em>%s/%s</em>.",
				kind, id, tag.Type, tag.Key)
			return nil
		},
	}
}

func getTagLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls KIND ID [TYPE]",
		Short: "List the tags and attachments of an entity",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()

			kind, id, err := parseOwner(args[0], args[1])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			tagType := ""
			if len(args) == 3 {
				tagType = args[2]
			}

			op, gormDB, err := openDatabase(ctx)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			ann := ioannotate.New(gormDB, ioaudit.New())

			tags, err := ann.Tags(ctx, kind, id, tagType)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			atts, err := ann.Attachments(ctx, kind, id, tagType)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			for _, t := range tags {
				fmt.Printf("%s/%s\t%s\n", t.Type, t.Key, t.Value)
			}
			for _, a := range atts {
				fmt.Printf("%s/%s\t%s (%s)\n",
					a.Type, a.Key, a.Filename, a.FileID)
			}
			if len(tags)+len(atts) == 0 {
				gn.Info("No annotations on %s <em>%d</em>.", kind, id)
			}
			return nil
		},
	}
}

func getTagRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm KIND ID TYPE KEY",
		Short: "Remove a tag from an entity",
		Args:  cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()

			kind, id, err := parseOwner(args[0], args[1])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			op, gormDB, err := openDatabase(ctx)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			ann := ioannotate.New(gormDB, ioaudit.New())
			err = ann.DeleteTag(ctx, kind, id, args[2], args[3])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			gn.Info("Removed <em>%s/%s</em> from %s <em>%d</em>.",
				args[2], args[3], kind, id)
			return nil
		},
	}
}

func getTagFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file KIND ID TYPE KEY FILE_ID FILENAME",
		Short: "Attach a stored file reference to an entity",
		Args:  cobra.ExactArgs(6),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()

			kind, id, err := parseOwner(args[0], args[1])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			op, gormDB, err := openDatabase(ctx)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			ann := ioannotate.New(gormDB, ioaudit.New())
			att, err := ann.AttachFile(ctx, kind, id,
				args[2], args[3], args[4], args[5], tagComment)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			gn.Info("Attached <em>%s</em> to %s <em>%d</em> as "+
				"<em>%s/%s</em>.",
				att.Filename, kind, id, att.Type, att.Key)
			return nil
		},
	}
}

func parseOwner(kindArg, idArg string) (schema.EntityKind, uint, error) {
	kind := schema.EntityKind(kindArg)
	id, err := strconv.ParseUint(idArg, 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("not an entity ID: %q", idArg)
	}
	return kind, uint(id), nil
}
