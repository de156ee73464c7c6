package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/califica/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the data root, DB path, inbox, log settings and server status. Does not open the database.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)
	out := cmd.OutOrStdout()

	inbox := cfg.Inbox
	if inbox == "" {
		inbox = paths.InboxDir
	}

	serverStatus := paint(colorYellow, "✗ not running")
	pid, err := readPID(paths.PIDFile)
	running := err == nil && processAlive(pid)
	if running {
		serverStatus = paint(colorGreen, fmt.Sprintf("✓ running (pid %d)", pid))
	}

	admin := "locked"
	if _, err := os.Stat(paths.AdminFlag); err == nil {
		admin = "unlocked"
	}

	fmt.Fprintln(out, paint(colorBold, "⚡ califica config"))
	fmt.Fprintf(out, "  Root:       %s\n", root)
	fmt.Fprintf(out, "  DB:         %s\n", paths.DB)
	fmt.Fprintf(out, "  Inbox:      %s\n", inbox)
	fmt.Fprintf(out, "  Log:        %s (%s)\n", cfg.Log.Level, cfg.Log.Env)
	fmt.Fprintf(out, "  Seed:       %t\n", !cfg.NoSeed)
	fmt.Fprintf(out, "  Admin:      %s\n", admin)
	fmt.Fprintf(out, "  Server:     %s\n", serverStatus)

	if running {
		if portData, err := os.ReadFile(paths.PortFile); err == nil {
			fmt.Fprintf(out, "  API:        http://localhost:%s\n", strings.TrimSpace(string(portData)))
		}
	}
	return nil
}
