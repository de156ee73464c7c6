package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/califica/internal/app"
	"github.com/corey/califica/internal/domain/snapshot"
	"github.com/corey/califica/internal/logging"
)

var (
	exportOutput string
	exportBrotli bool
	importWatch  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all reviews and requests to a snapshot file (admin)",
	Long: "Writes a JSON snapshot (version " + snapshot.Version + ") of every course, review and request.\n" +
		"Use --brotli or a .json.br file name for a compressed snapshot. -o - writes to stdout.",
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [FILE | --watch [DIR]]",
	Short: "Replace all data with a snapshot, or watch a folder for snapshots (admin)",
	Long: "Imports a .json or .json.br snapshot, replacing every review, course and request.\n" +
		"With --watch, imports each snapshot dropped into DIR (default: the inbox) until interrupted;\n" +
		"handled files are renamed to *.imported or *.rejected.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: usach-profes-DATE.json)")
	exportCmd.Flags().BoolVar(&exportBrotli, "brotli", false, "Compress with brotli")
	importCmd.Flags().BoolVar(&importWatch, "watch", false, "Watch a directory and import every snapshot dropped into it")
}

// defaultExportName mirrors the name the web UI used for downloads.
func defaultExportName(now time.Time, compress bool) string {
	name := "usach-profes-" + now.Format("2006-01-02") + ".json"
	if compress {
		name += ".br"
	}
	return name
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RequireAdmin(); err != nil {
		return err
	}

	if exportOutput == "-" {
		data, err := a.ExportSnapshot()
		if err != nil {
			return err
		}
		if exportBrotli {
			if data, err = snapshot.Compress(data); err != nil {
				return err
			}
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	path := exportOutput
	if path == "" {
		path = defaultExportName(time.Now(), exportBrotli)
	}
	sum, err := a.ExportFile(path, exportBrotli)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ exported %s │ %s\n", paint(colorCyan, path), formatSummary(sum))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if importWatch {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		return runImportWatch(cmd, dir)
	}
	if len(args) != 1 {
		return fmt.Errorf("import needs a snapshot FILE or --watch")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RequireAdmin(); err != nil {
		return err
	}
	sum, err := a.ImportFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ imported %s │ %s\n", paint(colorCyan, args[0]), formatSummary(sum))
	return nil
}

func runImportWatch(cmd *cobra.Command, dir string) error {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		dir = abs
	}
	a, err := openAppWith(func(c *app.Config) {
		if dir != "" {
			c.InboxDir = dir
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RequireAdmin(); err != nil {
		return err
	}

	// Imports are reported through the log; keep them visible.
	logging.Init(cfg.Log.Level, cfg.Log.Env, nil)

	if err := a.WatchInbox(); err != nil {
		return fmt.Errorf("watch %s: %w", a.InboxDir(), err)
	}
	defer a.Watcher.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "⚡ watching %s for snapshots (ctrl-c to stop)\n", paint(colorCyan, a.InboxDir()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Fprintln(cmd.OutOrStdout(), "\n⚡ stopped watching")
	return nil
}

func formatSummary(s snapshot.Summary) string {
	return fmt.Sprintf("%d courses │ %d professors │ %d reviews │ %d requests",
		s.Courses, s.Professors, s.Reviews, s.Requests)
}
