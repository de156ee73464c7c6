package ratings

import (
	"sort"

	"github.com/corey/califica/internal/domain/names"
)

// DefaultTopN is the length of the rankings in CourseStats.
const DefaultTopN = 5

// Ranked is one professor's aggregate within a course.
type Ranked struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// CourseStats are the derived statistics for one course.
//
// BestByAverage is nil when no professor has a review. MostReviewed is nil
// only when the course has no professors. Histogram[i] counts ratings of i+1.
type CourseStats struct {
	Course         string         `json:"course"`
	ProfessorCount int            `json:"professorCount"`
	ReviewCount    int            `json:"reviewCount"`
	OverallAverage float64        `json:"overallAverage"`
	BestByAverage  *Ranked        `json:"bestByAverage"`
	MostReviewed   *Ranked        `json:"mostReviewed"`
	TopByAverage   []Ranked       `json:"topByAverage"`
	TopByCount     []Ranked       `json:"topByCount"`
	Histogram      [MaxRating]int `json:"histogram"`
}

// ComputeStats derives CourseStats for c. A nil course yields zero stats.
func ComputeStats(c *Course) CourseStats {
	if c == nil {
		return CourseStats{TopByAverage: []Ranked{}, TopByCount: []Ranked{}}
	}
	st := CourseStats{
		Course:       c.Name,
		TopByAverage: TopByAverage(c, DefaultTopN),
		TopByCount:   TopByCount(c, DefaultTopN),
		Histogram:    Histogram(c),
	}
	sum := Summary(c)
	st.ProfessorCount = sum.ProfessorCount
	st.ReviewCount = sum.ReviewCount
	st.OverallAverage = sum.Average

	if len(st.TopByAverage) > 0 {
		best := st.TopByAverage[0]
		st.BestByAverage = &best
	}
	if len(st.TopByCount) > 0 {
		most := st.TopByCount[0]
		st.MostReviewed = &most
	}
	return st
}

// rank returns every professor's aggregate in course order.
func rank(c *Course) []Ranked {
	out := make([]Ranked, 0, len(c.Professors))
	for _, p := range c.Professors {
		out = append(out, Ranked{Name: p.Name, Average: p.Average(), Count: len(p.Reviews)})
	}
	return out
}

// TopByAverage returns professors with at least one review, highest average
// first, ties in course order, truncated to n (n <= 0 means no limit).
func TopByAverage(c *Course, n int) []Ranked {
	all := rank(c)
	rated := all[:0]
	for _, r := range all {
		if r.Count > 0 {
			rated = append(rated, r)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Average > rated[j].Average
	})
	return truncate(rated, n)
}

// TopByCount returns all professors, most reviews first, ties in course
// order, truncated to n (n <= 0 means no limit).
func TopByCount(c *Course, n int) []Ranked {
	all := rank(c)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})
	return truncate(all, n)
}

// Histogram counts the course's reviews per rating value. Ratings outside
// [MinRating, MaxRating] are not counted.
func Histogram(c *Course) [MaxRating]int {
	var h [MaxRating]int
	for _, p := range c.Professors {
		for _, r := range p.Reviews {
			if r.Rating >= MinRating && r.Rating <= MaxRating {
				h[r.Rating-MinRating]++
			}
		}
	}
	return h
}

func truncate(list []Ranked, n int) []Ranked {
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// CourseSummary is the headline of a course.
type CourseSummary struct {
	Course         string  `json:"course"`
	ProfessorCount int     `json:"professorCount"`
	ReviewCount    int     `json:"reviewCount"`
	Average        float64 `json:"average"`
}

// Summary counts professors and reviews and averages every review in c.
func Summary(c *Course) CourseSummary {
	if c == nil {
		return CourseSummary{}
	}
	all := c.Reviews()
	return CourseSummary{
		Course:         c.Name,
		ProfessorCount: len(c.Professors),
		ReviewCount:    len(all),
		Average:        Average(all),
	}
}

// Listing returns the professors whose names match query, best average
// first, ties in course order.
func Listing(c *Course, query string) []Ranked {
	if c == nil {
		return []Ranked{}
	}
	out := make([]Ranked, 0, len(c.Professors))
	for _, r := range rank(c) {
		if names.Contains(r.Name, query) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Average > out[j].Average
	})
	return out
}

// ProfessorProfile is the detail view of one professor.
type ProfessorProfile struct {
	Course  string   `json:"course"`
	Name    string   `json:"name"`
	Average float64  `json:"average"`
	Band    Band     `json:"band"`
	Count   int      `json:"count"`
	Reviews []Review `json:"reviews"`
}

// Profile returns p's detail view. Reviews are ordered by rating, highest
// first, then newest first.
func Profile(course string, p *Professor) ProfessorProfile {
	reviews := make([]Review, len(p.Reviews))
	copy(reviews, p.Reviews)
	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].Rating != reviews[j].Rating {
			return reviews[i].Rating > reviews[j].Rating
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	avg := p.Average()
	return ProfessorProfile{
		Course:  course,
		Name:    p.Name,
		Average: Round1(avg),
		Band:    BandFor(avg),
		Count:   len(p.Reviews),
		Reviews: reviews,
	}
}
