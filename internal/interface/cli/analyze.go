package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/reviewrider/internal/core/models"
)

var analyzeMode string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [product...]",
	Short: "Analyze product reviews",
	Long: `Submit products to the review analysis service and print the result.

In single mode the first argument is analyzed. In multi mode up to four
arguments fill the comparison slots, replacing the saved inputs; with no
arguments the saved inputs are used.

Examples:
  reviewrider analyze https://www.wildberries.ru/catalog/123456/detail.aspx
  reviewrider analyze --mode multi 123456 654321
  reviewrider analyze --mode multi`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", "", "single or multi (default: saved mode)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	mode := ctrl.View().Mode
	if analyzeMode != "" {
		parsed, ok := models.ParseMode(analyzeMode)
		if !ok {
			return fmt.Errorf("unknown mode %q (want single or multi)", analyzeMode)
		}
		mode = parsed
	}
	if err := ctrl.SetMode(mode); err != nil {
		return err
	}

	switch mode {
	case models.ModeSingle:
		if len(args) > 0 {
			ctrl.SetSingleInput(args[0])
		}
	case models.ModeMulti:
		if len(args) > models.ComparisonSlots {
			return fmt.Errorf("at most %d products can be compared", models.ComparisonSlots)
		}
		if len(args) > 0 {
			for slot := 1; slot <= models.ComparisonSlots; slot++ {
				v := ""
				if slot <= len(args) {
					v = args[slot-1]
				}
				if err := ctrl.SetComparisonInput(slot, v); err != nil {
					return err
				}
			}
		}
	}

	if err := toMain(ctrl); err != nil {
		return err
	}

	req, err := ctrl.Begin()
	if err != nil {
		return userError(err)
	}

	spinner := NewSpinner(cmd.ErrOrStderr(), ctrl.View().Progress.Message)
	spinner.Start()

	ctx, cancel := ctrl.CallContext(cmd.Context())
	resp, callErr := ctrl.Client().Analyze(ctx, req, func(fraction float64, message string) {
		ctrl.ReportProgress(fraction, message)
		spinner.SetMessage(message)
	})
	cancel()

	result, err := ctrl.Complete(resp, callErr)
	spinner.Stop()
	if err != nil {
		return userError(err)
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}
