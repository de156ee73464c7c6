package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/corey/califica/internal/domain/ratings"
	"github.com/corey/califica/internal/domain/requests"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// useColor is decided once per invocation from --no-color, NO_COLOR and the TTY.
var useColor bool

// paint wraps s in color when color output is enabled.
func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

func bandColor(b ratings.Band) string {
	switch b {
	case ratings.BandExcellent:
		return colorBold + colorGreen
	case ratings.BandGood:
		return colorGreen
	case ratings.BandFair:
		return colorYellow
	default:
		return colorRed
	}
}

// formatAverage renders an average to one decimal, colored by band.
// Zero reviews render as a dash.
func formatAverage(avg float64, count int) string {
	if count == 0 {
		return paint(colorGray, "  —")
	}
	return paint(bandColor(ratings.BandFor(avg)), fmt.Sprintf("%4.1f", ratings.Round1(avg)))
}

// formatStars renders the 0..5 star scale, halves rounded to the nearest star.
func formatStars(avg float64) string {
	n := int(math.Round(ratings.Stars(avg)))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// formatCourses formats the course list with summaries.
//
//	⚡ 4 courses
//	  Cálculo I          3 profs   12 reviews   avg  7.8
func formatCourses(list []ratings.CourseSummary) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d courses", len(list))) + "\n")
	width := 0
	for _, c := range list {
		width = max(width, len([]rune(c.Course)))
	}
	for _, c := range list {
		sb.WriteString(fmt.Sprintf("  %s%s  %2d profs  %3d reviews   avg %s\n",
			paint(colorCyan, c.Course), pad(c.Course, width),
			c.ProfessorCount, c.ReviewCount, formatAverage(c.Average, c.ReviewCount)))
	}
	return sb.String()
}

// formatListing formats a course's professors, best average first.
func formatListing(course string, list []ratings.Ranked) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %s", course)) + fmt.Sprintf(" │ %d professors\n", len(list)))
	width := 0
	for _, r := range list {
		width = max(width, len([]rune(r.Name)))
	}
	for _, r := range list {
		sb.WriteString(fmt.Sprintf("  %s%s  %s  %s  %s\n",
			r.Name, pad(r.Name, width),
			formatAverage(r.Average, r.Count),
			formatStars(r.Average),
			paint(colorGray, fmt.Sprintf("(%d)", r.Count))))
	}
	return sb.String()
}

// formatProfile formats one professor with every review.
func formatProfile(p ratings.ProfessorProfile) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %s", p.Name)) + fmt.Sprintf(" │ %s\n", p.Course))
	sb.WriteString(fmt.Sprintf("  Average:  %s  %s\n", formatAverage(p.Average, p.Count), formatStars(p.Average)))
	sb.WriteString(fmt.Sprintf("  Reviews:  %d\n", p.Count))
	for _, r := range p.Reviews {
		sb.WriteString(fmt.Sprintf("  %s %s  %s",
			paint(bandColor(ratings.BandFor(float64(r.Rating))), fmt.Sprintf("%2d", r.Rating)),
			paint(colorGray, ratings.FormatTimestamp(r.CreatedAt)),
			paint(colorGray, r.ID)))
		if r.Comment != "" {
			sb.WriteString("\n      " + r.Comment)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// histogramWidth is the longest bar in formatStats.
const histogramWidth = 30

// formatStats formats course statistics with an ASCII histogram.
//
//	⚡ Cálculo I │ 3 professors │ 12 reviews │ avg 7.8
//	  Best:          Daniel Saa  9.0 (4)
//	  Most reviewed: Lina Silva  (5)
//	   10 │████████ 3
func formatStats(st ratings.CourseStats) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %s", st.Course)))
	sb.WriteString(fmt.Sprintf(" │ %d professors │ %d reviews │ avg %s\n",
		st.ProfessorCount, st.ReviewCount, formatAverage(st.OverallAverage, st.ReviewCount)))

	if st.BestByAverage != nil {
		sb.WriteString(fmt.Sprintf("  Best:          %s  %s (%d)\n",
			st.BestByAverage.Name, formatAverage(st.BestByAverage.Average, st.BestByAverage.Count), st.BestByAverage.Count))
	} else {
		sb.WriteString("  Best:          —\n")
	}
	if st.MostReviewed != nil {
		sb.WriteString(fmt.Sprintf("  Most reviewed: %s  (%d)\n", st.MostReviewed.Name, st.MostReviewed.Count))
	} else {
		sb.WriteString("  Most reviewed: —\n")
	}

	if len(st.TopByAverage) > 0 {
		sb.WriteString("  Top by average:\n")
		for i, r := range st.TopByAverage {
			sb.WriteString(fmt.Sprintf("    %d. %s  %s\n", i+1, r.Name, formatAverage(r.Average, r.Count)))
		}
	}
	if len(st.TopByCount) > 0 {
		sb.WriteString("  Top by reviews:\n")
		for i, r := range st.TopByCount {
			sb.WriteString(fmt.Sprintf("    %d. %s  (%d)\n", i+1, r.Name, r.Count))
		}
	}

	sb.WriteString(formatHistogram(st.Histogram))
	return sb.String()
}

// formatHistogram draws one bar per rating, 10 at the top. Bars scale to
// the tallest bucket.
func formatHistogram(h [ratings.MaxRating]int) string {
	peak := 0
	for _, n := range h {
		peak = max(peak, n)
	}
	var sb strings.Builder
	sb.WriteString("  Ratings:\n")
	for v := ratings.MaxRating; v >= ratings.MinRating; v-- {
		n := h[v-ratings.MinRating]
		bar := 0
		if peak > 0 {
			bar = n * histogramWidth / peak
		}
		if n > 0 && bar == 0 {
			bar = 1
		}
		sb.WriteString(fmt.Sprintf("   %2d │%s %d\n", v,
			paint(bandColor(ratings.BandFor(float64(v))), strings.Repeat("█", bar)), n))
	}
	return sb.String()
}

func statusColor(s requests.Status) string {
	switch s {
	case requests.StatusAccepted:
		return colorGreen
	case requests.StatusRejected:
		return colorRed
	default:
		return colorYellow
	}
}

// formatRequests formats the request queue, newest first.
func formatRequests(list requests.List) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d requests", len(list))) + "\n")
	for _, r := range list {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
			paint(colorGray, r.ID),
			paint(statusColor(r.Status), fmt.Sprintf("%-8s", r.Status)),
			paint(colorCyan, r.CourseName),
			paint(colorGray, ratings.FormatTimestamp(r.SubmittedAt))))
		if r.Details != "" {
			sb.WriteString("      " + r.Details + "\n")
		}
		if r.ContactEmail != "" {
			sb.WriteString("      " + paint(colorGray, r.ContactEmail) + "\n")
		}
	}
	return sb.String()
}

// pad returns the spaces needed to left-align s in a column of width runes.
func pad(s string, width int) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
