package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/califica/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API on localhost and watch the import inbox",
	Long: "Starts the local JSON API on 127.0.0.1 and imports snapshots dropped into the inbox.\n" +
		"Logs go to .califica/log/serve.log. Stop with ctrl-c or SIGTERM.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(a.Paths.ServeLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		a.Close()
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logging.Init(cfg.Log.Level, cfg.Log.Env, logFile)

	if err := a.Start(); err != nil {
		a.Close()
		return err
	}
	if err := os.WriteFile(a.Paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		a.Stop()
		return fmt.Errorf("write pid file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "⚡ califica API at %s\n", paint(colorCyan, a.WebServer.URL()))
	fmt.Fprintf(cmd.OutOrStdout(), "  inbox: %s\n", a.InboxDir())
	fmt.Fprintf(cmd.OutOrStdout(), "  log:   %s\n", a.Paths.ServeLog)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Fprintln(cmd.OutOrStdout(), "\n⚡ shutting down...")
	return a.Stop()
}
