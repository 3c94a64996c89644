package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"qr-registry/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	recentFlag int
	codeFlag   string
	noteFlag   string
	authorFlag string
	mediaFlag  string
	idFlag     string
)

// recordsCmd represents the records command
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage stored records",
}

// recordsListCmd represents the records list command
var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		var recs []reconcile.Record
		if recentFlag > 0 {
			recs, err = a.engine.Recent(ctx, recentFlag)
		} else {
			recs, err = a.engine.All(ctx)
		}
		if err != nil {
			return err
		}

		if jsonFlag {
			data, err := json.MarshalIndent(recs, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal records: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tAUTHOR\tCREATED\tNOTE")
		for _, r := range recs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Code, r.Author, r.CreatedAt.Format(time.RFC3339), r.Note)
		}
		return w.Flush()
	},
}

// recordsSaveCmd represents the records save command
var recordsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create a record, or update one with --id",
	Long:  `Commits a draft. A local --media path is uploaded to the media bucket before the record is written; a URL is stored as is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		draft := reconcile.Draft{Code: codeFlag, Media: mediaFlag, Note: noteFlag, Author: authorFlag}
		rec, err := a.engine.Commit(ctx, draft, idFlag)
		if err != nil {
			return err
		}

		a.log.Info("Record saved", zap.String("id", rec.ID), zap.String("media_ref", rec.MediaRef))
		return nil
	},
}

// recordsDeleteCmd represents the records delete command
var recordsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a record by id, or every record for --code",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && codeFlag == "" {
			return fmt.Errorf("an id or --code is required")
		}

		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if len(args) == 1 {
			return a.engine.Remove(ctx, args[0])
		}

		removed, err := a.engine.RemoveByCode(ctx, codeFlag)
		a.log.Info("Records removed", zap.String("code", codeFlag), zap.Strings("ids", removed))
		return err
	},
}

func init() {
	RootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsListCmd, recordsSaveCmd, recordsDeleteCmd)

	recordsListCmd.Flags().IntVar(&recentFlag, "recent", 0, "Only show the N newest records")
	recordsListCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print records as JSON")

	recordsSaveCmd.Flags().StringVar(&codeFlag, "code", "", "Decoded QR value")
	recordsSaveCmd.Flags().StringVar(&noteFlag, "note", "", "Free text note")
	recordsSaveCmd.Flags().StringVar(&authorFlag, "author", "", "Author name")
	recordsSaveCmd.Flags().StringVar(&mediaFlag, "media", "", "Local image path or media URL")
	recordsSaveCmd.Flags().StringVar(&idFlag, "id", "", "Record id to update")

	recordsDeleteCmd.Flags().StringVar(&codeFlag, "code", "", "Delete every record with this code")
}
