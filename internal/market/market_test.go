package market

import "testing"

func TestDetectCategory(t *testing.T) {
	cases := []struct {
		question string
		want     Category
	}{
		{"Will Bitcoin reach $100k by December?", CategoryCrypto},
		{"Will BTC close above $90k?", CategoryCrypto},
		{"Will Trump win the election?", CategoryPolitics},
		{"Who controls the Senate after November?", CategoryPolitics},
		{"Will the Chiefs win the Super Bowl?", CategorySports},
		{"Will any NBA team win 70 games?", CategorySports},
		{"Will it rain in London tomorrow?", CategoryOther},
	}

	for _, tc := range cases {
		if got := DetectCategory(tc.question); got != tc.want {
			t.Errorf("DetectCategory(%q) = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestParseCategory_TagWins(t *testing.T) {
	// The provider tag overrides keyword detection.
	if got := ParseCategory("Politics", "Will Bitcoin reach $100k?"); got != CategoryPolitics {
		t.Errorf("expected politics from tag, got %s", got)
	}
}

func TestParseCategory_TechnologyOnlyByTag(t *testing.T) {
	if got := ParseCategory("technology", "Will GPT-5 ship this year?"); got != CategoryTechnology {
		t.Errorf("expected technology from tag, got %s", got)
	}
	// Without the tag the same question falls to other.
	if got := ParseCategory("", "Will GPT-5 ship this year?"); got != CategoryOther {
		t.Errorf("expected other without tag, got %s", got)
	}
}

func TestParseCategory_UnknownTagFallsToDetection(t *testing.T) {
	if got := ParseCategory("finance", "Will Ethereum flip Bitcoin?"); got != CategoryCrypto {
		t.Errorf("expected crypto via detection, got %s", got)
	}
}
