package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/reviewrider/internal/core/history"
	"github.com/neilberkman/reviewrider/internal/core/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved session",
	Long:  "Show the screen the session would reopen on, the analysis mode, comparison inputs and the last result.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl, err := a.controller()
	if err != nil {
		return err
	}
	defer warnStorage(cmd.ErrOrStderr(), ctrl)

	w := cmd.OutOrStdout()
	snap := ctrl.Snapshot()

	fmt.Fprintf(w, "Screen:  %s\n", snap.LastScreen)
	fmt.Fprintf(w, "Mode:    %s\n", snap.Mode)
	fmt.Fprintln(w, "Inputs:")
	for i, v := range snap.ComparisonInputs {
		if v == "" {
			v = "(empty)"
		}
		fmt.Fprintf(w, "  %d: %s\n", i+1, v)
	}

	if snap.LastResult != nil {
		fmt.Fprintf(w, "Last result: %s (%s)\n",
			history.TruncateTitle(snap.LastResult.DisplayTitle()),
			history.KindLabel(models.HistoryEntry{Result: snap.LastResult}))
	} else {
		fmt.Fprintln(w, "Last result: none")
	}
	fmt.Fprintf(w, "History: %d of %d\n", len(snap.History), history.Capacity)
	return nil
}
