package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/reviewrider/internal/core/export"
	"github.com/neilberkman/reviewrider/internal/core/models"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [n]",
	Short: "Export an analysis to markdown",
	Long: `Export the last result, or history entry n, to markdown.

The layout comes from ~/.config/reviewrider/export_template.md when it
exists (mustache syntax), otherwise a built-in template is used.

Examples:
  reviewrider export
  reviewrider export 3 --output comparison.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		r  models.AnalysisResult
		ts time.Time
	)

	snap := a.store.Snapshot()
	if len(args) == 1 {
		index, err := parseEntryNumber(args[0])
		if err != nil {
			return err
		}
		if index >= len(snap.History) {
			return fmt.Errorf("no history entry %d (history has %d)", index+1, len(snap.History))
		}
		r, ts = snap.History[index].Result, snap.History[index].Timestamp
	} else {
		r = snap.LastResult
		if r == nil {
			return fmt.Errorf("no result to export; run 'reviewrider analyze' first")
		}
	}

	content, err := export.Render(r, ts, a.cfg.ExportTemplate)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	outputPath := exportOutput
	if !filepath.IsAbs(outputPath) {
		// Make relative paths absolute to current directory
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputPath = filepath.Join(cwd, outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to: %s\n", outputPath)
	return nil
}
