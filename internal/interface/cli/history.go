package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neilberkman/reviewrider/internal/core/session"
)

var (
	historyFilter string
	historyLimit  int
	historyYes    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past analyses",
	Long: `List, open and delete the last 20 analyses, newest first.

Entries are addressed by their number in 'history list' (1 is the newest).

Examples:
  reviewrider history list
  reviewrider history list --filter "type:multi after:last-week"
  reviewrider history show 2
  reviewrider history delete 3
  reviewrider history clear --yes`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past analyses",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <n>",
	Short: "Open a past analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <n>",
	Short: "Delete one past analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every past analysis",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)

	historyListCmd.Flags().StringVarP(&historyFilter, "filter", "f", "", "Filter: text, type:single|multi, after:<date>, before:<date>")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of entries to display")
	historyDeleteCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl, err := a.controller()
	if err != nil {
		return err
	}

	rows := ctrl.FilterHistory(historyFilter)
	if historyLimit > 0 && len(rows) > historyLimit {
		rows = rows[:historyLimit]
	}

	w := cmd.OutOrStdout()
	if len(rows) == 0 {
		if historyFilter != "" {
			fmt.Fprintf(w, "No analyses match: %s\n", historyFilter)
		} else {
			fmt.Fprintln(w, "No analyses yet. Run 'reviewrider analyze' to start one.")
		}
		return nil
	}

	for _, row := range rows {
		printEntryLine(w, row)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	index, err := parseEntryNumber(args[0])
	if err != nil {
		return err
	}

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

	if err := toHistory(ctrl); err != nil {
		return err
	}
	entry, err := ctrl.ViewHistoryEntry(index)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), entry.Result)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	index, err := parseEntryNumber(args[0])
	if err != nil {
		return err
	}

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

	deleted, err := ctrl.DeleteHistoryEntry(index, confirmer(cmd))
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d.\n", index+1)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
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

	cleared, err := ctrl.ClearHistory(confirmer(cmd))
	if err != nil {
		return err
	}
	if !cleared {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}

// parseEntryNumber converts a 1-based entry number to a position
func parseEntryNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid entry number %q", s)
	}
	return n - 1, nil
}

// confirmer asks on stdin unless --yes was given
func confirmer(cmd *cobra.Command) session.Confirmer {
	if historyYes {
		return session.AlwaysConfirm
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return session.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", prompt)
		line, _ := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
}
