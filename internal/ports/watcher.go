package ports

// Watcher monitors an import inbox for snapshot files. The adapter filters
// out everything that is not a snapshot (*.json or *.json.br) and debounces
// bursts of writes to the same file before invoking onFile. Only one Watch
// call should be active at a time.
type Watcher interface {
	// Watch starts monitoring dir (non-recursive). onFile is called with the
	// absolute path of each created or rewritten snapshot. The callback may be
	// invoked from any goroutine. Returns an error if the directory doesn't
	// exist or permissions are insufficient.
	Watch(dir string, onFile func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onFile calls will fire. Safe to call multiple times.
	Stop() error
}
