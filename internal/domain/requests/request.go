// Package requests holds student requests for new courses and their review
// lifecycle.
package requests

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corey/califica/internal/apperr"
)

// Status is a request's review state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// legacyStatus maps the status labels older snapshots were written with.
var legacyStatus = map[string]Status{
	"en revisión": StatusPending,
	"en revision": StatusPending,
	"aceptada":    StatusAccepted,
	"rechazada":   StatusRejected,
}

// ParseStatus accepts current and legacy status labels.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusRejected:
		return Status(s), nil
	}
	if st, ok := legacyStatus[s]; ok {
		return st, nil
	}
	return "", apperr.NewValidationError("unknown request status: " + s)
}

// NewID returns a fresh request id.
var NewID = func() string {
	return uuid.NewString()
}

// Request asks for a course to be added to the catalogue.
type Request struct {
	ID           string    `json:"id"`
	CourseName   string    `json:"courseName"`
	Details      string    `json:"details"`
	ContactEmail string    `json:"contactEmail"`
	SubmittedAt  time.Time `json:"submittedAt"`
	Status       Status    `json:"status"`
}

// New builds a pending request. All fields are trimmed and the course name
// is required.
func New(course, details, email string, now time.Time) (Request, error) {
	course = strings.TrimSpace(course)
	if course == "" {
		return Request{}, apperr.NewValidationError("course name is required")
	}
	return Request{
		ID:           NewID(),
		CourseName:   course,
		Details:      strings.TrimSpace(details),
		ContactEmail: strings.TrimSpace(email),
		SubmittedAt:  now.UTC(),
		Status:       StatusPending,
	}, nil
}

// wireRequest is the permissive decode shape, covering both the current
// field names and the legacy ones.
type wireRequest struct {
	ID           string `json:"id"`
	CourseName   string `json:"courseName"`
	Details      string `json:"details"`
	ContactEmail string `json:"contactEmail"`
	SubmittedAt  string `json:"submittedAt"`
	Status       string `json:"status"`

	Ramo    string `json:"ramo"`
	Detalle string `json:"detalle"`
	Email   string `json:"email"`
	Date    string `json:"date"`
}

// UnmarshalJSON decodes a request, accepting legacy field names and status
// labels. Unknown statuses decode as pending.
func (r *Request) UnmarshalJSON(data []byte) error {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Request{
		ID:           w.ID,
		CourseName:   firstNonEmpty(w.CourseName, w.Ramo),
		Details:      firstNonEmpty(w.Details, w.Detalle),
		ContactEmail: firstNonEmpty(w.ContactEmail, w.Email),
		Status:       StatusPending,
	}
	if ts := firstNonEmpty(w.SubmittedAt, w.Date); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			r.SubmittedAt = t.UTC()
		}
	}
	if st, err := ParseStatus(w.Status); err == nil {
		r.Status = st
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// List is the request queue, newest first.
type List []Request

// Submit prepends r.
func (l List) Submit(r Request) List {
	out := make(List, 0, len(l)+1)
	out = append(out, r)
	return append(out, l...)
}

// Find returns the index of the request with id, or -1.
func (l List) Find(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Transition moves request id to status and returns the updated list and
// request. Only pending requests can be decided; repeating the current
// status is a no-op. The receiver is not modified.
func (l List) Transition(id string, to Status) (List, Request, error) {
	i := l.Find(id)
	if i < 0 {
		return l, Request{}, apperr.NewNotFoundError("request " + id + " not found")
	}
	cur := l[i]
	if cur.Status == to {
		return l, cur, nil
	}
	if cur.Status != StatusPending || to == StatusPending {
		return l, cur, apperr.NewConflictError("request " + id + " is " + string(cur.Status) + ", cannot become " + string(to))
	}
	out := make(List, len(l))
	copy(out, l)
	out[i].Status = to
	return out, out[i], nil
}

// Pending counts requests awaiting a decision.
func (l List) Pending() int {
	n := 0
	for _, r := range l {
		if r.Status == StatusPending {
			n++
		}
	}
	return n
}

// Decode parses a JSON array of requests. Anything that is not an array
// yields an empty list. Malformed elements and elements without a course
// name are skipped.
func Decode(data []byte) List {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return List{}
	}
	out := make(List, 0, len(raw))
	for _, m := range raw {
		var r Request
		if err := json.Unmarshal(m, &r); err != nil || r.CourseName == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
