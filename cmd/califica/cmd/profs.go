package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var profsQuery string

var profsCmd = &cobra.Command{
	Use:   "profs COURSE",
	Short: "List a course's professors, best average first",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfs,
}

var profCmd = &cobra.Command{
	Use:   "prof COURSE NAME",
	Short: "Show one professor's reviews",
	Long:  "Shows a professor's average and every review, highest rating first. The name matches ignoring case and accents.",
	Args:  cobra.ExactArgs(2),
	RunE:  runProf,
}

var profRmCmd = &cobra.Command{
	Use:   "rm COURSE NAME",
	Short: "Delete a professor and all their reviews (admin)",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfRm,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest COURSE QUERY",
	Short: "Suggest professor names in a course",
	Args:  cobra.ExactArgs(2),
	RunE:  runSuggest,
}

func init() {
	profsCmd.Flags().StringVarP(&profsQuery, "query", "q", "", "Filter by name (ignores case and accents)")
	profCmd.AddCommand(profRmCmd)
}

func runProfs(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.Professors(args[0], profsQuery)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatListing(args[0], list))
	return nil
}

func runProf(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Professor(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatProfile(p))
	return nil
}

func runProfRm(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RequireAdmin(); err != nil {
		return err
	}
	if err := a.DeleteProfessor(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ removed %s from %s\n", args[1], paint(colorCyan, args[0]))
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.Suggest(args[0], args[1])
	if err != nil {
		return err
	}
	if len(list) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(list, "\n"))
	}
	return nil
}
