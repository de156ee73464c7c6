package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/califica/internal/apperr"
)

var rateComment string

var rateCmd = &cobra.Command{
	Use:   "rate COURSE NAME RATING",
	Short: "Review a professor (rating 1-10)",
	Long: "Adds an anonymous review. Ratings are clamped to 1-10 and truncated to an integer.\n" +
		"An unknown professor is created; accent and case variants share one record.",
	Args: cobra.ExactArgs(3),
	RunE: runRate,
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage individual reviews",
}

var reviewRmCmd = &cobra.Command{
	Use:   "rm COURSE NAME ID",
	Short: "Remove one review by id",
	Args:  cobra.ExactArgs(3),
	RunE:  runReviewRm,
}

func init() {
	rateCmd.Flags().StringVarP(&rateComment, "message", "m", "", "Optional comment")
	reviewCmd.AddCommand(reviewRmCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	rating, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return apperr.NewValidationError(fmt.Sprintf("rating %q is not a number", args[2]))
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.AddReview(args[0], args[1], rating, rateComment)
	if err != nil {
		return err
	}
	p, err := a.Professor(strings.TrimSpace(args[0]), args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ rated %s in %s │ avg %s (%d) │ id %s\n",
		p.Name, paint(colorCyan, args[0]), formatAverage(p.Average, p.Count), p.Count, paint(colorGray, id))
	return nil
}

func runReviewRm(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RemoveReview(args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ review %s removed\n", args[2])
	return nil
}
