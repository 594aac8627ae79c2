package market

import (
	"regexp"
	"strconv"
	"time"
)

// Verdict is the temporal filter's decision for one market.
type Verdict int

const (
	// Tradeable markets continue into the prediction stage.
	Tradeable Verdict = iota
	// SkippedDate marks markets whose resolution date is already past.
	SkippedDate
	// SkippedYear marks markets whose question names a year before the
	// current one; providers sometimes keep these listed as active.
	SkippedYear
	// TooFarOut marks markets resolving beyond the configured horizon.
	// These are dropped silently, without per-market logging.
	TooFarOut
)

func (v Verdict) String() string {
	switch v {
	case Tradeable:
		return "TRADEABLE"
	case SkippedDate:
		return "SKIPPED_DATE"
	case SkippedYear:
		return "SKIPPED_YEAR"
	case TooFarOut:
		return "TOO_FAR_OUT"
	}
	return "UNKNOWN"
}

var yearPattern = regexp.MustCompile(`20\d\d`)

// Filter rejects markets that are stale or resolve too far out.
type Filter struct {
	daysAhead int
}

func NewFilter(daysAhead int) *Filter {
	return &Filter{daysAhead: daysAhead}
}

// Check applies the temporal checks in order: past resolution date, horizon,
// then stale years in the question text. A zero EndDate cannot be judged and
// passes through — staleness filtering fails open, not closed.
func (f *Filter) Check(m Market, now time.Time) Verdict {
	if !m.EndDate.IsZero() {
		if m.EndDate.Before(now) {
			return SkippedDate
		}
		horizon := now.Add(time.Duration(f.daysAhead) * 24 * time.Hour)
		if m.EndDate.After(horizon) {
			return TooFarOut
		}
	}

	currentYear := now.UTC().Year()
	for _, tok := range yearPattern.FindAllString(m.Question, -1) {
		year, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if year < currentYear {
			return SkippedYear
		}
	}

	return Tradeable
}
