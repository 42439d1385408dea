package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muhammadolammi/resumescreener/internal/ranker"
)

// Summary is the content of the Summary sheet.
type Summary struct {
	Role            string
	Total           int
	Shortlisted     int
	HighlyQualified int
	Average         float64
	Highest         float64
	Lowest          float64
	ExportedAt      time.Time
}

// Summarize computes the statistics over rows. Empty input gives zero
// scores.
func Summarize(rows []ranker.Row, role string, now time.Time) Summary {
	s := Summary{Role: strings.TrimSpace(role), Total: len(rows), ExportedAt: now}
	if s.Role == "" {
		s.Role = DefaultRole
	}
	if len(rows) == 0 {
		return s
	}

	s.Highest, s.Lowest = rows[0].MatchingPercentage, rows[0].MatchingPercentage
	var sum float64
	for _, r := range rows {
		p := r.MatchingPercentage
		sum += p
		s.Highest = max(s.Highest, p)
		s.Lowest = min(s.Lowest, p)
		if p >= 60 {
			s.Shortlisted++
		}
		if p >= 80 {
			s.HighlyQualified++
		}
	}
	s.Average = sum / float64(len(rows))
	return s
}

// Metrics lists the label and display value of every summary line.
func (s Summary) Metrics() [][2]string {
	return [][2]string{
		{"Job Role", s.Role},
		{"Total Candidates", strconv.Itoa(s.Total)},
		{"Shortlisted (≥60%)", strconv.Itoa(s.Shortlisted)},
		{"Highly Qualified (≥80%)", strconv.Itoa(s.HighlyQualified)},
		{"Average Score", percent(s.Average)},
		{"Highest Score", percent(s.Highest)},
		{"Lowest Score", percent(s.Lowest)},
		{"Export Date", s.ExportedAt.Format("2006-01-02")},
		{"Export Time", s.ExportedAt.Format("15:04:05")},
	}
}

func percent(v float64) string { return fmt.Sprintf("%.2f%%", v) }
