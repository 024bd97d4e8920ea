package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// alphaNorm is the VADER normalization constant.
const alphaNorm = 15.0

// Analyzer computes normalized compound polarity for free text.
type Analyzer struct {
	lex Lexicon
}

func NewAnalyzer(lex Lexicon) *Analyzer {
	return &Analyzer{lex: lex}
}

// Compound returns the normalized valence sum of the text in [-1, 1].
func (a *Analyzer) Compound(text string) float64 {
	var sum float64
	for _, tok := range tokenize(text) {
		if v, ok := a.lex[tok]; ok {
			sum += v
		}
	}
	if sum == 0 {
		return 0
	}
	compound := sum / math.Sqrt(sum*sum+alphaNorm)
	if compound > 1 {
		return 1
	}
	if compound < -1 {
		return -1
	}
	return compound
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
