package ratings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Persisted shape, kept compatible with existing exports:
//
//	{"<course>": {"<professor display name>": {"reviews": [<review>, ...]}}}
//
// JSON objects are decoded in document order so that "first seen" in Merge
// and tie-breaking in the statistics follow the order of the file.

type reviewJSON struct {
	ID      string `json:"id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

type professorJSON struct {
	Reviews []Review `json:"reviews"`
}

// MarshalJSON encodes the review with its date in TimestampLayout.
func (r Review) MarshalJSON() ([]byte, error) {
	rj := reviewJSON{ID: r.ID, Rating: r.Rating, Comment: r.Comment}
	if !r.CreatedAt.IsZero() {
		rj.Date = FormatTimestamp(r.CreatedAt)
	}
	return json.Marshal(rj)
}

// UnmarshalJSON decodes a review leniently: non-numeric ratings become 0,
// fractional ratings are truncated, and a missing id falls back to the raw
// date string.
func (r *Review) UnmarshalJSON(data []byte) error {
	rev, ok := decodeReview(data)
	if !ok {
		return fmt.Errorf("review: expected JSON object")
	}
	*r = rev
	return nil
}

// MarshalJSON encodes the store in course order, professors in course order.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s.Courses {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, c.Name); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, p := range c.Professors {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, p.Name); err != nil {
				return nil, err
			}
			reviews := p.Reviews
			if reviews == nil {
				reviews = []Review{}
			}
			body, err := json.Marshal(professorJSON{Reviews: reviews})
			if err != nil {
				return nil, fmt.Errorf("marshal professor %q: %w", p.Name, err)
			}
			buf.Write(body)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes leniently via DecodeStore and never fails.
func (s *Store) UnmarshalJSON(data []byte) error {
	*s = *DecodeStore(data)
	return nil
}

// DecodeStore decodes a persisted or imported store. Anything that is not a
// JSON object yields an empty store; malformed members are skipped or
// emptied rather than rejected. The result may contain duplicate professor
// keys; run it through Merge before use.
func DecodeStore(data []byte) *Store {
	s := NewStore()
	if !json.Valid(data) {
		return s
	}
	eachMember(data, func(courseName string, courseRaw json.RawMessage) {
		c := &Course{Name: courseName}
		eachMember(courseRaw, func(profName string, profRaw json.RawMessage) {
			c.Professors = append(c.Professors, &Professor{
				Name:    profName,
				Reviews: decodeReviews(profRaw),
			})
		})
		s.Courses = append(s.Courses, c)
	})
	return s
}

func decodeReviews(profRaw json.RawMessage) []Review {
	var body struct {
		Reviews json.RawMessage `json:"reviews"`
	}
	if err := json.Unmarshal(profRaw, &body); err != nil {
		return []Review{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body.Reviews, &items); err != nil {
		return []Review{}
	}
	out := make([]Review, 0, len(items))
	for _, item := range items {
		if r, ok := decodeReview(item); ok {
			out = append(out, r)
		}
	}
	return out
}

func decodeReview(data []byte) (Review, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Review{}, false
	}
	var r Review
	rawDate := stringField(fields["date"])
	if rawDate != "" {
		if t, err := time.Parse(time.RFC3339, rawDate); err == nil {
			r.CreatedAt = t.UTC()
		}
	}
	r.ID = stringField(fields["id"])
	if r.ID == "" {
		r.ID = rawDate
	}
	r.Rating = coerceRating(fields["rating"])
	r.Comment = stringField(fields["comment"])
	return r, true
}

// stringField returns a JSON string's value, or a number's literal text.
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// coerceRating converts a JSON number or numeric string to an int,
// truncating toward zero. Anything else is 0.
func coerceRating(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0
		}
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Trunc(f))
}

// eachMember calls fn for every member of a JSON object in document order.
// It does nothing when data is not an object.
func eachMember(data []byte, fn func(key string, value json.RawMessage)) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		key, ok := tok.(string)
		if !ok {
			return
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return
		}
		fn(key, value)
	}
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}
