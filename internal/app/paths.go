package app

import (
	"os"
	"path/filepath"
)

// DirName is the per-project data directory.
const DirName = ".califica"

// Paths holds all resolved filesystem paths for the .califica/ directory.
type Paths struct {
	Root string // .califica/
	DB   string // .califica/califica.db

	LogDir   string // .califica/log/
	ServeLog string // .califica/log/serve.log

	RunDir    string // .califica/run/
	PIDFile   string // .califica/run/serve.pid
	PortFile  string // .califica/run/http.port
	AdminFlag string // .califica/run/admin

	InboxDir string // .califica/inbox/
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DirName)
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "califica.db"),

		LogDir:   filepath.Join(root, "log"),
		ServeLog: filepath.Join(root, "log", "serve.log"),

		RunDir:    filepath.Join(root, "run"),
		PIDFile:   filepath.Join(root, "run", "serve.pid"),
		PortFile:  filepath.Join(root, "run", "http.port"),
		AdminFlag: filepath.Join(root, "run", "admin"),

		InboxDir: filepath.Join(root, "inbox"),
	}
}

// EnsureDirs creates all subdirectories under .califica/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir, p.InboxDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes ephemeral runtime files (PID file, port file and
// admin session flag). Called on clean server shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
	os.Remove(p.PortFile)
	os.Remove(p.AdminFlag)
}
