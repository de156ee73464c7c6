package app

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/corey/califica/internal/apperr"
	"github.com/corey/califica/internal/domain/snapshot"
)

// Export captures the live state as a snapshot document.
func (a *App) Export() *snapshot.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return snapshot.New(a.ratings.Clone(), append(a.requests[:0:0], a.requests...), a.now())
}

// ExportSnapshot renders the live state as JSON.
func (a *App) ExportSnapshot() ([]byte, error) {
	data, err := snapshot.Encode(a.Export())
	if err != nil {
		return nil, apperr.NewInternalError("encode snapshot", err)
	}
	return data, nil
}

// ExportFile writes a snapshot to path, brotli-compressed when the path ends
// in .json.br or compress is set.
func (a *App) ExportFile(path string, compress bool) (snapshot.Summary, error) {
	doc := a.Export()
	data, err := snapshot.Encode(doc)
	if err != nil {
		return snapshot.Summary{}, apperr.NewInternalError("encode snapshot", err)
	}
	if compress || snapshot.IsCompressed(path) {
		if data, err = snapshot.Compress(data); err != nil {
			return snapshot.Summary{}, apperr.NewInternalError("compress snapshot", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return snapshot.Summary{}, apperr.NewInternalError("write snapshot", err)
	}
	sum := snapshot.Summarize(doc.Store, doc.Requests)
	log.Info().Str("path", path).Int("reviews", sum.Reviews).Msg("snapshot exported")
	return sum, nil
}

// ImportSnapshot replaces the live store, course list and requests with the
// contents of a JSON snapshot. The document is parsed, merged and reconciled
// (against the seed unless NoSeed is set) before anything is written; store and requests are then saved in one
// transaction. On any failure the prior state, in memory and on disk, is
// unchanged.
func (a *App) ImportSnapshot(data []byte) (snapshot.Summary, error) {
	doc, err := snapshot.Parse(data)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot rejected")
		return snapshot.Summary{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	roster, base := a.roster, a.base
	if a.noSeed {
		// Merge only; the course list is the document's own.
		roster, base = nil, nil
	}
	nextStore := snapshot.Resolve(doc, roster, base)
	nextReqs := doc.Requests
	if err := a.Store.SaveState(nextStore, nextReqs); err != nil {
		return snapshot.Summary{}, persistErr("import snapshot", err)
	}
	a.ratings, a.requests = nextStore, nextReqs

	sum := snapshot.Summarize(nextStore, nextReqs)
	log.Info().
		Str("version", doc.Version).
		Int("courses", sum.Courses).
		Int("professors", sum.Professors).
		Int("reviews", sum.Reviews).
		Int("requests", sum.Requests).
		Msg("snapshot imported")
	return sum, nil
}

// ImportFile imports a snapshot file, decompressing *.json.br files.
func (a *App) ImportFile(path string) (snapshot.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot.Summary{}, apperr.NewInternalError("read snapshot", err)
	}
	if snapshot.IsCompressed(path) {
		if data, err = snapshot.Decompress(data); err != nil {
			return snapshot.Summary{}, apperr.NewFormatError("snapshot is not valid brotli", err)
		}
	}
	return a.ImportSnapshot(data)
}

// Inbox files are renamed once handled so they are never imported twice.
const (
	importedSuffix = ".imported"
	rejectedSuffix = ".rejected"
)

// onInboxFile imports a snapshot dropped into the inbox.
func (a *App) onInboxFile(path string) {
	sum, err := a.ImportFile(path)
	suffix := importedSuffix
	if err != nil {
		suffix = rejectedSuffix
		log.Error().Err(err).Str("path", path).Msg("inbox import failed")
	} else {
		log.Info().Str("path", path).Int("reviews", sum.Reviews).Msg("inbox import applied")
	}
	if err := os.Rename(path, path+suffix); err != nil {
		log.Warn().Err(err).Str("path", path).Msgf("could not mark file %s", suffix)
	}
}
