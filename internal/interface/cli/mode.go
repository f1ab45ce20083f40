package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neilberkman/reviewrider/internal/core/models"
)

var inputsSet []string

var modeCmd = &cobra.Command{
	Use:   "mode [single|multi]",
	Short: "Show or set the analysis mode",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMode,
}

var inputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "Show or set the comparison inputs",
	Long: `Show the four saved comparison inputs, or change them.

Examples:
  reviewrider inputs
  reviewrider inputs --set 1=123456 --set 2=654321
  reviewrider inputs --set 3=`,
	Args: cobra.NoArgs,
	RunE: runInputs,
}

func init() {
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(inputsCmd)
	inputsCmd.Flags().StringArrayVar(&inputsSet, "set", nil, "Set a slot as N=value (repeatable, empty value clears)")
}

func runMode(cmd *cobra.Command, args []string) error {
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

	if len(args) == 1 {
		mode, ok := models.ParseMode(args[0])
		if !ok {
			return fmt.Errorf("unknown mode %q (want single or multi)", args[0])
		}
		if err := ctrl.SetMode(mode); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), ctrl.View().Mode)
	return nil
}

func runInputs(cmd *cobra.Command, args []string) error {
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

	for _, assignment := range inputsSet {
		slot, value, err := parseSlotAssignment(assignment)
		if err != nil {
			return err
		}
		if err := ctrl.SetComparisonInput(slot, value); err != nil {
			return err
		}
	}

	for i, v := range ctrl.View().ComparisonInputs {
		if v == "" {
			v = "(empty)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i+1, v)
	}
	return nil
}

// parseSlotAssignment splits "N=value"
func parseSlotAssignment(s string) (int, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return 0, "", fmt.Errorf("invalid --set %q, expected N=value", s)
	}
	slot, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || slot < 1 || slot > models.ComparisonSlots {
		return 0, "", fmt.Errorf("invalid slot %q, expected 1-%d", key, models.ComparisonSlots)
	}
	return slot, value, nil
}
