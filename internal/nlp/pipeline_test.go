package nlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIsShared(t *testing.T) {
	p1, err := Load()
	require.NoError(t, err)
	p2, err := Load()
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	require.NotNil(t, p1.model)
	assert.Same(t, p1.model, p1.Recognizer().model)
}

func TestRecognizerReusesModel(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)
	rec := p.Recognizer()

	for range 3 {
		_, err := rec.Persons(context.Background(), "Jane Doe joined Acme in London as a backend engineer.")
		require.NoError(t, err)
	}
	tokens, err := p.Tag("building services")
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
}

func TestTagAndLemma(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	tokens, err := p.Tag("she was building scalable services")
	require.NoError(t, err)
	require.NotEmpty(t, tokens)

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
		assert.NotEmpty(t, tok.Tag, tok.Text)
	}
	assert.Equal(t, []string{"she", "was", "building", "scalable", "services"}, texts)

	assert.Equal(t, "service", p.Lemma(Token{Text: "services", Tag: "NNS"}))
	assert.Equal(t, "paris", p.Lemma(Token{Text: "Paris", Tag: "NNP"}))
}

func TestStopAndAlpha(t *testing.T) {
	assert.True(t, IsStop("The"))
	assert.True(t, IsStop("using"))
	assert.False(t, IsStop("kubernetes"))

	assert.True(t, IsAlpha("golang"))
	assert.False(t, IsAlpha("html5"))
	assert.False(t, IsAlpha("front-end"))
	assert.False(t, IsAlpha(""))
}

func TestProseRecognizerHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ProseRecognizer{}.Persons(ctx, "John Smith")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePersons(t *testing.T) {
	got, err := parsePersons("```json\n[\"Jane Doe\", \"Ravi Kumar\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "Ravi Kumar"}, got)

	got, err = parsePersons("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parsePersons("not json")
	assert.Error(t, err)
}
