package scoring

import (
	"math"

	"github.com/muhammadolammi/resumescreener/internal/skills"
)

// Weights of the base score components.
const (
	CoverageWeight = 0.50
	CountWeight    = 0.30
	SemanticWeight = 0.20

	// CriticalBonusUnit is earned per CriticalDivisor critical skills matched.
	CriticalBonusUnit = 0.15
	CriticalDivisor   = 4.0
)

// CriticalSkills reward breadth across a small set of widely valued skills.
var CriticalSkills = map[string]struct{}{
	"react": {}, "reactjs": {}, "javascript": {}, "js": {},
	"html": {}, "css": {}, "python": {}, "java": {},
}

// Input is everything the engine needs for one resume.
type Input struct {
	Matched     skills.Set
	JD          skills.Set
	CleanResume string
	CleanJD     string
}

// Breakdown exposes each component next to the final percentage.
type Breakdown struct {
	SkillCoverage      float64
	SkillCountScore    float64
	SemanticSimilarity float64
	BaseScore          float64
	CriticalBonus      float64
	Percentage         float64
}

// Score returns the final percentage in [0, 100], rounded to 2 decimals.
func Score(in Input) float64 {
	return Compute(in).Percentage
}

// Compute runs the full scoring formula.
func Compute(in Input) Breakdown {
	var b Breakdown
	if total := in.JD.TotalWeight(); total > 0 {
		b.SkillCoverage = in.Matched.TotalWeight() / total
	}
	if len(in.JD) > 0 {
		b.SkillCountScore = float64(len(in.Matched)) / float64(len(in.JD))
	}
	b.SemanticSimilarity = SemanticSimilarity(in.CleanResume, in.CleanJD)

	b.BaseScore = CoverageWeight*b.SkillCoverage +
		CountWeight*b.SkillCountScore +
		SemanticWeight*b.SemanticSimilarity

	critical := 0
	for skill := range in.Matched {
		if _, ok := CriticalSkills[skill]; ok {
			critical++
		}
	}
	b.CriticalBonus = float64(critical) / CriticalDivisor * CriticalBonusUnit

	pct := math.Min((b.BaseScore+b.CriticalBonus)*100, 100)
	b.Percentage = Round2(math.Max(pct, 0))
	return b
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
