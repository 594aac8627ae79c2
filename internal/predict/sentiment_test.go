package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordScorer_Bullish(t *testing.T) {
	s := NewKeywordScorer()

	// "surge" and "rally" hit, nothing bearish: (2-0)/2 = 1.
	assert.Equal(t, 1.0, s.Score("analysts see a surge as the rally continues"))
}

func TestKeywordScorer_Bearish(t *testing.T) {
	s := NewKeywordScorer()

	// "crash" and "weak" hit: (0-2)/2 = -1.
	assert.Equal(t, -1.0, s.Score("a crash looks imminent given weak demand"))
}

func TestKeywordScorer_Mixed(t *testing.T) {
	s := NewKeywordScorer()

	// 2 bullish ("rally", "strong") vs 1 bearish ("doubt"): (2-1)/3.
	got := s.Score("a strong rally, though some doubt remains")
	assert.InDelta(t, 1.0/3.0, got, 1e-9)
}

func TestKeywordScorer_NoHits(t *testing.T) {
	s := NewKeywordScorer()

	assert.Equal(t, 0.0, s.Score("the weather was pleasant today"))
	assert.Equal(t, 0.0, s.Score(""))
}

func TestKeywordScorer_CaseInsensitive(t *testing.T) {
	s := NewKeywordScorer()

	assert.Equal(t, 1.0, s.Score("BULLISH MOMENTUM"))
}
