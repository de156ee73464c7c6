package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses with review counts and averages",
	Args:  cobra.NoArgs,
	RunE:  runCoursesList,
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses with review counts and averages",
	Args:  cobra.NoArgs,
	RunE:  runCoursesList,
}

var coursesAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add an empty course (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoursesAdd,
}

func init() {
	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesAddCmd)
}

func runCoursesList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprint(cmd.OutOrStdout(), formatCourses(a.Courses()))
	return nil
}

func runCoursesAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RequireAdmin(); err != nil {
		return err
	}
	if err := a.AddCourse(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ course %s ready\n", paint(colorCyan, args[0]))
	return nil
}
