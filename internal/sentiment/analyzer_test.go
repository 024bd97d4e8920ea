package sentiment

import (
	"math"
	"testing"
)

var testLex = Lexicon{
	"great":    3.1,
	"good":     1.9,
	"bad":      -2.5,
	"terrible": -2.1,
	"injured":  -1.7,
}

func TestCompound(t *testing.T) {
	a := NewAnalyzer(testLex)

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"no lexicon hits", "the fixture kicks off at noon", 0},
		{"positive", "a great performance", 3.1 / math.Sqrt(3.1*3.1+alphaNorm)},
		{"negative", "terrible news, he is injured", (-2.1 - 1.7) / math.Sqrt(3.8*3.8+alphaNorm)},
		{"mixed cancels out", "good start but bad finish", (1.9 - 2.5) / math.Sqrt(0.6*0.6+alphaNorm)},
		{"case insensitive", "GREAT", 3.1 / math.Sqrt(3.1*3.1+alphaNorm)},
		{"empty text", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Compound(tt.text)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Compound(%q) = %f, want %f", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompoundBounds(t *testing.T) {
	a := NewAnalyzer(testLex)
	text := ""
	for i := 0; i < 200; i++ {
		text += "great "
	}
	got := a.Compound(text)
	if got > 1 || got < 0.99 {
		t.Errorf("heavily positive text should approach +1, got %f", got)
	}
}

func TestTokenize(t *testing.T) {
	toks := tokenize("Haaland's hat-trick, 3 goals!")
	want := []string{"haaland's", "hat", "trick", "3", "goals"}
	if len(toks) != len(want) {
		t.Fatalf("tokenize = %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, toks[i], want[i])
		}
	}
}
