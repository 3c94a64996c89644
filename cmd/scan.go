package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"qr-registry/core/listing"
	"qr-registry/core/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var editFlag bool

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [code...]",
	Short: "Run scan cycles for decoded codes",
	Long: `Runs one scan cycle per code, taken from the arguments or, when none are
given, one per line from stdin (e.g. piped from a decoder).

Known codes print their record. Unknown codes are saved with --note,
--author and --media; with --edit, known codes are updated with whichever
of those flags are set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		sess := session.New(a.engine, listing.New(), a.log, session.WithTimeout(a.operationTimeout()))
		defer func() {
			sess.Wait()
			sess.Close()
		}()

		codes := args
		if len(codes) == 0 {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					codes = append(codes, line)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read codes: %w", err)
			}
		}

		failed := 0
		for _, code := range codes {
			state := runScanCycle(sess, code)
			printState(state)
			if state.Err != nil {
				failed++
				a.log.Warn("Scan cycle failed", zap.String("code", code), zap.Error(state.Err))
			}
			// Leave the session ready for the next code
			sess.Rescan()
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d scan cycles failed", failed, len(codes))
		}
		return nil
	},
}

// runScanCycle resolves code and, when asked to, saves a draft for it.
func runScanCycle(sess *session.Session, code string) session.State {
	sess.Decode(code)
	sess.Wait()

	state := sess.State()
	switch state.Phase {
	case session.PhaseViewing:
		if !editFlag {
			return state
		}
		sess.Edit()
	case session.PhaseDrafting:
	default:
		return state
	}

	if noteFlag != "" {
		sess.SetNote(noteFlag)
	}
	if authorFlag != "" {
		sess.SetAuthor(authorFlag)
	}
	if mediaFlag != "" {
		sess.SetMedia(mediaFlag)
	}
	sess.Save()
	sess.Wait()
	return sess.State()
}

func printState(state session.State) {
	out := struct {
		session.State
		Error string `json:"error,omitempty"`
	}{State: state, Error: state.ErrorMessage()}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", state)
		return
	}
	fmt.Println(string(data))
}

func init() {
	RootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&editFlag, "edit", false, "Update records that already exist")
	scanCmd.Flags().StringVar(&noteFlag, "note", "", "Note for saved records")
	scanCmd.Flags().StringVar(&authorFlag, "author", "", "Author for saved records")
	scanCmd.Flags().StringVar(&mediaFlag, "media", "", "Local image path or media URL")
}
