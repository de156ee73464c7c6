// Package snapshot defines the portable export document and the parse step
// that every import passes through before it reaches the live store.
package snapshot

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/corey/califica/internal/apperr"
	"github.com/corey/califica/internal/domain/ratings"
	"github.com/corey/califica/internal/domain/requests"
)

// Version is written into every exported document.
const Version = "v10"

// Document is the export/import unit.
type Document struct {
	Version    string         `json:"version"`
	CourseList []string       `json:"courseList"`
	Store      *ratings.Store `json:"store"`
	Requests   requests.List  `json:"requests"`
	ExportedAt time.Time      `json:"exportedAt"`
}

// New assembles a document for export.
func New(store *ratings.Store, reqs requests.List, now time.Time) *Document {
	if reqs == nil {
		reqs = requests.List{}
	}
	return &Document{
		Version:    Version,
		CourseList: store.CourseNames(),
		Store:      store,
		Requests:   reqs,
		ExportedAt: now.UTC(),
	}
}

// Encode renders d as indented JSON.
func Encode(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Parse validates and decodes an import document. It fails with a format
// error when data is not a JSON object or has no usable store. Within the
// store, malformed members are dropped rather than rejected. The legacy
// "courses" key is read when "courseList" is absent, and a requests value
// that is not an array yields no requests.
func Parse(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, apperr.NewFormatError("snapshot is not a JSON object", err)
	}
	if top == nil {
		return nil, apperr.NewFormatError("snapshot is not a JSON object", nil)
	}

	storeRaw, ok := top["store"]
	if !ok || falsy(storeRaw) {
		return nil, apperr.NewFormatError("snapshot has no store", nil)
	}

	doc := &Document{
		Version:  stringValue(top["version"]),
		Store:    ratings.DecodeStore(storeRaw),
		Requests: requests.List{},
	}
	if raw, ok := top["courseList"]; ok {
		doc.CourseList = stringList(raw)
	} else {
		doc.CourseList = stringList(top["courses"])
	}
	if raw, ok := top["requests"]; ok {
		doc.Requests = requests.Decode(raw)
	}
	if ts := stringValue(top["exportedAt"]); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			doc.ExportedAt = t.UTC()
		}
	}
	return doc, nil
}

// falsy reports whether raw is a JSON value that cannot stand in for a store.
func falsy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

func stringValue(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// stringList keeps the non-empty string elements of a JSON array.
func stringList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(stringValue(it)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Resolve turns a parsed document into the store that replaces the live
// one: the imported store is merged and reconciled against the seed, then
// every course named by the document or the base list is ensured, imported
// names first.
func Resolve(d *Document, roster ratings.Roster, base []string) *ratings.Store {
	store := ratings.Reconcile(d.Store, roster, base)
	for _, name := range UnionCourses(d.CourseList, base) {
		// Names are non-empty after stringList, so this cannot fail.
		_ = store.EnsureCourse(name)
	}
	return store
}

// UnionCourses concatenates lists, dropping exact duplicates.
func UnionCourses(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, name := range l {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// Summary counts what a snapshot carries.
type Summary struct {
	Courses    int `json:"courses"`
	Professors int `json:"professors"`
	Reviews    int `json:"reviews"`
	Requests   int `json:"requests"`
}

// Summarize counts the contents of store and reqs.
func Summarize(store *ratings.Store, reqs requests.List) Summary {
	sum := Summary{Courses: len(store.Courses), Requests: len(reqs)}
	for _, c := range store.Courses {
		sum.Professors += len(c.Professors)
		sum.Reviews += len(c.Reviews())
	}
	return sum
}
