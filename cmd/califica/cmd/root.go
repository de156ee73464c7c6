package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/califica/internal/app"
	"github.com/corey/califica/internal/config"
	"github.com/corey/califica/internal/logging"
)

var (
	verbose bool
	noColor bool

	// cfg is resolved once per invocation by the root pre-run hook.
	cfg = config.Load()
)

var rootCmd = &cobra.Command{
	Use:           "califica",
	Short:         "califica — rate your professors, course by course",
	Long:          "Anonymous 1-10 reviews of professors per course, with rankings, statistics and course requests.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		useColor = colorWanted(noColor)

		// One-shot commands stay quiet unless asked; serve reconfigures.
		level := "warn"
		if verbose {
			level = cfg.Log.Level
		}
		logging.Init(level, cfg.Log.Env, nil)
	},
}

// projectRoot returns the directory holding .califica/ (CALIFICA_HOME, else cwd).
func projectRoot() string {
	if cfg.Home != "" {
		return cfg.Home
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// appConfig maps the resolved environment onto app.Config.
func appConfig(root string) app.Config {
	return app.Config{
		ProjectRoot: root,
		HTTPPort:    cfg.HTTP.Port,
		AdminPin:    cfg.AdminPin,
		InboxDir:    cfg.Inbox,
		NoSeed:      cfg.NoSeed,
	}
}

// openApp opens the store for a one-shot command. Callers must Close it.
func openApp() (*app.App, error) {
	return openAppWith(func(*app.Config) {})
}

func openAppWith(adjust func(*app.Config)) (*app.App, error) {
	root := projectRoot()
	c := appConfig(root)
	adjust(&c)
	a, err := app.New(c)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(root))
		}
		return nil, err
	}
	return a, nil
}

// Execute runs the root command and prints any failure to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at CALIFICA_LOG_LEVEL instead of warn")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(profsCmd)
	rootCmd.AddCommand(profCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wipeCmd)
}
