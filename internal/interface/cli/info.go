package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/reviewrider/internal/core/history"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show storage details",
	Long:  "Show where the session is stored, how much is stored and when it was last written.",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

var infoKeys bool

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoKeys, "keys", false, "List the stored record keys")
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Config:   %s\n", a.cfg.Dir)
	fmt.Fprintf(w, "Endpoint: %s (timeout %s)\n", a.cfg.Endpoint, a.cfg.Timeout)

	if a.db == nil {
		fmt.Fprintln(w, "Database: (ephemeral, in memory)")
	} else {
		stats, err := a.db.GetStats()
		if err != nil {
			return fmt.Errorf("failed to read stats: %w", err)
		}
		fmt.Fprintf(w, "Database: %s\n", a.db.Path())
		fmt.Fprintf(w, "Records:  %d (%s)\n", stats.TotalRecords, humanize.Bytes(uint64(stats.TotalBytes)))
		if !stats.LastWrite.IsZero() {
			fmt.Fprintf(w, "Written:  %s\n", humanize.Time(stats.LastWrite))
		}
		if infoKeys {
			keys, err := a.db.ListRecordKeys()
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}
			for _, k := range keys {
				fmt.Fprintf(w, "  %s\n", k)
			}
		}
	}

	entries, _, err := a.store.History()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "History:  %d of %d\n", len(entries), history.Capacity)
	return nil
}
