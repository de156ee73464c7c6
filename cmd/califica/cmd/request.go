package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/califica/internal/domain/requests"
)

var (
	requestDetails string
	requestEmail   string
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Ask for a new course and review pending requests",
}

var requestSubmitCmd = &cobra.Command{
	Use:   "submit COURSE",
	Short: "Request a course that is not listed yet",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestSubmit,
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List course requests, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRequestList,
}

var requestAcceptCmd = &cobra.Command{
	Use:   "accept ID",
	Short: "Accept a pending request and create its course (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequestStatus(cmd, args[0], requests.StatusAccepted)
	},
}

var requestRejectCmd = &cobra.Command{
	Use:   "reject ID",
	Short: "Reject a pending request (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequestStatus(cmd, args[0], requests.StatusRejected)
	},
}

func init() {
	requestSubmitCmd.Flags().StringVar(&requestDetails, "details", "", "Why the course should be added")
	requestSubmitCmd.Flags().StringVar(&requestEmail, "email", "", "Contact email (optional)")

	requestCmd.AddCommand(requestSubmitCmd)
	requestCmd.AddCommand(requestListCmd)
	requestCmd.AddCommand(requestAcceptCmd)
	requestCmd.AddCommand(requestRejectCmd)
}

func runRequestSubmit(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.SubmitRequest(args[0], requestDetails, requestEmail)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ request for %s submitted │ id %s\n",
		paint(colorCyan, r.CourseName), paint(colorGray, r.ID))
	return nil
}

func runRequestList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprint(cmd.OutOrStdout(), formatRequests(a.Requests()))
	return nil
}

func runRequestStatus(cmd *cobra.Command, id string, status requests.Status) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RequireAdmin(); err != nil {
		return err
	}
	r, err := a.SetRequestStatus(id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ request %s %s │ %s\n",
		paint(colorGray, r.ID), paint(statusColor(r.Status), string(r.Status)), paint(colorCyan, r.CourseName))
	return nil
}
