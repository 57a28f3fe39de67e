package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/marcus/lightbox/internal/output"
	"github.com/marcus/lightbox/internal/scenario"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Replay a scripted lightbox scenario without a terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showTree, _ := cmd.Flags().GetBool("tree")

		sc, err := scenario.Load(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}
		return runReplay(cmd.OutOrStdout(), sc, showTree, slog.Default())
	},
}

// runReplay prints one line per step and, optionally, the final document
// tree. A failed expectation is reported and returned.
func runReplay(w io.Writer, sc *scenario.Scenario, showTree bool, logger *slog.Logger) error {
	if sc.Name != "" {
		fmt.Fprintf(w, "SCENARIO %s\n", sc.Name)
	}
	if len(sc.Steps) == 0 {
		output.Warning("scenario has no steps")
	}
	res, err := scenario.Run(sc, scenario.RunOptions{
		Logger: logger,
		OnStep: func(r scenario.StepResult) {
			fmt.Fprintln(w, r.String())
		},
	})
	if res != nil && showTree {
		root := output.FromElement(res.Document.Body, res.Document.ActiveElement())
		fmt.Fprintln(w, "body")
		fmt.Fprintln(w, output.RenderTree(root, output.TreeRenderOptions{ShowText: true}))
	}
	if err != nil {
		output.Error("%v", err)
		return err
	}
	fmt.Fprintln(w, output.Success("PASS %d steps", len(res.Steps)))
	return nil
}

func init() {
	replayCmd.Flags().Bool("tree", false, "print the document tree after the last step")
	rootCmd.AddCommand(replayCmd)
}
