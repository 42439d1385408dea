package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/resumescreener/internal/skills"
)

func TestFitTransformEmpty(t *testing.T) {
	_, err := DefaultVectorizer.FitTransform([]string{"", ""})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	// single-character tokens are not terms
	_, err = DefaultVectorizer.FitTransform([]string{"a b c", "d"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestFitTransformBigramsAndNorm(t *testing.T) {
	vecs, err := DefaultVectorizer.FitTransform([]string{"machine learning engineer", "machine learning"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	// unigrams: engineer, learning, machine; bigrams: learning engineer, machine learning
	assert.Len(t, vecs[0], 5)
	for _, v := range vecs {
		var norm float64
		for _, x := range v {
			norm += x * x
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
	}
}

func TestFitTransformMaxFeatures(t *testing.T) {
	v := Vectorizer{MinN: 1, MaxN: 1, MaxFeatures: 2}
	vecs, err := v.FitTransform([]string{"go go go rust rust zig", "go rust"})
	require.NoError(t, err)
	assert.Len(t, vecs[0], 2)
}

func TestSemanticSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, SemanticSimilarity("python django postgres", "python django postgres"), 1e-9)
	assert.Equal(t, 0.0, SemanticSimilarity("python django", "welding carpentry"))
	assert.Equal(t, 0.0, SemanticSimilarity("", ""))

	s := SemanticSimilarity("python django developer", "python developer kubernetes")
	assert.Greater(t, s, 0.0)
	assert.Less(t, s, 1.0)
}

func TestScoreNoJDSkills(t *testing.T) {
	b := Compute(Input{JD: skills.Set{}, Matched: skills.Set{}})
	assert.Equal(t, 0.0, b.SkillCoverage)
	assert.Equal(t, 0.0, b.SkillCountScore)
	assert.Equal(t, 0.0, b.Percentage)
}

func TestScoreZeroMatched(t *testing.T) {
	jd := skills.Set{"go": 3, "docker": 3}
	got := Score(Input{JD: jd, Matched: skills.Set{}, CleanResume: "welding", CleanJD: "golang docker"})
	assert.Equal(t, 0.0, got)
}

func TestScoreCappedAt100(t *testing.T) {
	jd := skills.Set{
		"react": 4, "javascript": 3.5, "html": 2.5, "css": 2.5,
		"python": 4, "java": 3, "js": 3.5, "reactjs": 4,
	}
	text := "react javascript html css python java"
	got := Score(Input{JD: jd, Matched: jd, CleanResume: text, CleanJD: text})
	assert.Equal(t, 100.0, got)
}

func TestScoreFormula(t *testing.T) {
	jd := skills.Set{"go": 3, "docker": 3, "python": 4}
	matched := skills.Set{"go": 3, "python": 4}
	b := Compute(Input{JD: jd, Matched: matched})

	assert.InDelta(t, 0.7, b.SkillCoverage, 1e-9)
	assert.InDelta(t, 2.0/3.0, b.SkillCountScore, 1e-9)
	assert.Equal(t, 0.0, b.SemanticSimilarity)
	assert.InDelta(t, 0.15/4, b.CriticalBonus, 1e-9)
	// (0.5*0.7 + 0.3*2/3 + 0.0375) * 100 = 58.75
	assert.Equal(t, 58.75, b.Percentage)
}

func TestScoreRoundedToTwoDecimals(t *testing.T) {
	jd := skills.Set{"go": 3, "docker": 3, "sql": 3}
	b := Compute(Input{JD: jd, Matched: skills.Set{"go": 3}, CleanResume: "go service", CleanJD: "go docker sql"})
	assert.GreaterOrEqual(t, b.Percentage, 0.0)
	assert.LessOrEqual(t, b.Percentage, 100.0)
	assert.Equal(t, b.Percentage, Round2(b.Percentage))
}
