package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/muhammadolammi/resumescreener/internal/extract"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Contact: jane.doe@example.com, phone 9876543210", "jane.doe@example.com"},
		{"MAIL: Jane.Doe@Example.COM", "jane.doe@example.com"},
		{"a@b.co then rahul.k@mail.in", "rahul.k@mail.in"},
		{"no address here", NotFound},
		{"", NotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.in), tt.in)
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+91-9876543210", "9876543210"},
		{"9876543210", "9876543210"},
		{"+91 9876543210", "9876543210"},
		{"call 98765 43210", "9876543210"},
		{"12345", NotFound},
		{"", NotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Phone(tt.in), tt.in)
	}
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Jane Doe"))
	assert.True(t, IsValidName("JANE MARY DOE"))
	assert.False(t, IsValidName("Jane"), "one word")
	assert.False(t, IsValidName("Jo L"), "too short")
	assert.False(t, IsValidName("Jane Doe2"), "digits")
	assert.False(t, IsValidName("Work Experience"), "header")
	assert.False(t, IsValidName("Delhi Public"), "location")
	assert.False(t, IsValidName("jane doe"), "lowercase")
	assert.False(t, IsValidName("Jane A Doe"), "single letter word")
	assert.False(t, IsValidName("One Two Three Four Five"), "five words")
}

func spans(text string, size float64) []extract.FontSpan {
	out := make([]extract.FontSpan, 0, len(text))
	for _, r := range text {
		out = append(out, extract.FontSpan{Text: string(r), Size: size})
	}
	return out
}

func TestByFont(t *testing.T) {
	var src Source
	src.Spans = append(src.Spans, spans("PRIYA VERMA Resume", 20.04)...)
	src.Spans = append(src.Spans, spans("Backend engineer at Acme Labs", 11)...)

	name, ok := ByFont(context.Background(), src)
	assert.True(t, ok)
	assert.Equal(t, "Priya Verma", name)

	_, ok = ByFont(context.Background(), Source{})
	assert.False(t, ok)
}

func TestByFontToleratesSmallSizeDrift(t *testing.T) {
	var src Source
	src.Spans = append(src.Spans, spans("Arjun ", 18.0)...)
	src.Spans = append(src.Spans, spans("Mehta", 18.3)...)
	src.Spans = append(src.Spans, spans(" skills python", 10)...)

	name, ok := ByFont(context.Background(), src)
	assert.True(t, ok)
	assert.Equal(t, "Arjun Mehta", name)
}

func TestByPosition(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"skips header", "CURRICULUM VITAE\n\nJane Doe\njane@example.com", "Jane Doe", true},
		{"skips role", "Senior Developer\nRahul Sharma", "Rahul Sharma", true},
		{"skips location", "Noida City\nAmit Kumar", "Amit Kumar", true},
		{"skips punctuation", "Name: Jane Doe\nJohn Smith", "John Smith", true},
		{"no match", "python django\nreact", "", false},
		{"beyond twenty lines", strings.Repeat("x\n", 20) + "Jane Doe", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ByPosition(context.Background(), Source{Text: tt.text})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeRecognizer struct {
	persons []string
	err     error
	seen    string
}

func (f *fakeRecognizer) Persons(_ context.Context, text string) ([]string, error) {
	f.seen = text
	return f.persons, f.err
}

func TestByEntities(t *testing.T) {
	rec := &fakeRecognizer{persons: []string{"ACME Corp", "Noida Team", "R2 Unit", "Jane Q Doe"}}
	strategy := ByEntities(rec, zerolog.Nop())

	name, ok := strategy(context.Background(), Source{Text: strings.Repeat("a", 5000)})
	assert.True(t, ok)
	assert.Equal(t, "Jane Q Doe", name)
	assert.Len(t, rec.seen, entityWindow)
}

func TestByEntitiesError(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("boom")}
	_, ok := ByEntities(rec, zerolog.Nop())(context.Background(), Source{Text: "text"})
	assert.False(t, ok)
}

func TestNameExtractorChain(t *testing.T) {
	ctx := context.Background()

	rec := &fakeRecognizer{persons: []string{"Meera Nair"}}
	e := NewNameExtractor(rec, zerolog.Nop())
	assert.Equal(t, "Meera Nair", e.Extract(ctx, Source{Text: "python developer\nreact"}))
	assert.Equal(t, "Jane Doe", e.Extract(ctx, Source{Text: "Jane Doe\npython"}))

	assert.Equal(t, UnknownCandidate, NewNameExtractor(nil, zerolog.Nop()).Extract(ctx, Source{Text: "python"}))
	assert.Equal(t, UnknownCandidate, NewNameExtractorWith().Extract(ctx, Source{}))
}
