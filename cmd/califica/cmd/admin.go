package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Unlock or lock admin mode",
	Long: "Admin mode gates deleting professors, accepting or rejecting requests, export and import.\n" +
		"It is a convenience lock for a shared machine, not authentication.\n" +
		"An unlock lasts 8 hours, or until a running serve stops.",
}

var adminLoginCmd = &cobra.Command{
	Use:   "login [PIN]",
	Short: "Unlock admin mode (reads the PIN from stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdminLogin,
}

var adminLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Lock admin mode",
	Args:  cobra.NoArgs,
	RunE:  runAdminLogout,
}

var adminStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether admin mode is unlocked",
	Args:  cobra.NoArgs,
	RunE:  runAdminStatus,
}

func init() {
	adminCmd.AddCommand(adminLoginCmd)
	adminCmd.AddCommand(adminLogoutCmd)
	adminCmd.AddCommand(adminStatusCmd)
}

func runAdminLogin(cmd *cobra.Command, args []string) error {
	pin := ""
	if len(args) == 1 {
		pin = args[0]
	} else {
		if promptWanted() {
			fmt.Fprint(cmd.OutOrStdout(), "PIN: ")
		}
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		pin = strings.TrimRight(line, "\r\n")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Unlock(pin); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), paint(colorGreen, "⚡ admin mode unlocked"))
	return nil
}

func runAdminLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Lock(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "⚡ admin mode locked")
	return nil
}

func runAdminStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.IsAdmin() {
		fmt.Fprintln(cmd.OutOrStdout(), paint(colorGreen, "✓ admin mode unlocked"))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), paint(colorYellow, "✗ admin mode locked"))
	}
	return nil
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or set the UI theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE:      runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	theme := a.Theme()
	if len(args) == 1 {
		if theme, err = a.SetTheme(args[0]); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ theme: %s\n", theme)
	return nil
}
