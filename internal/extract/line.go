package extract

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/rozsagyenelaw/accounting-app/internal/normalize"
)

// section is the line scanner's explicit state. It is threaded through the
// scan rather than held as ambient context, so every transition is visible
// in one place.
type section int

const (
	sectionUnknown section = iota
	sectionReceipts
	sectionDisbursements
	sectionChecks
)

var (
	// transactionLine captures date, description, and trailing signed
	// amount. Up to three leading garbage characters tolerate OCR noise
	// before the date.
	transactionLine = regexp.MustCompile(
		`^[^0-9A-Za-z(]{0,3}(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\s+(.+?)\s+(\(?-?\$?[\d,]+\.\d{2}\)?-?)\s*$`)

	// checkLine matches the compact serial-order check listing:
	// "04/12 1047* 500.00".
	checkLine = regexp.MustCompile(
		`^[^0-9A-Za-z(]{0,3}(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\s+(\d{3,6})\*?\s+(\(?-?\$?[\d,]+\.\d{2}\)?-?)\s*$`)
)

// LineExtractor scans lines of statement text and emits candidates. One
// instance per parse; the profile and filter are read-only.
type LineExtractor struct {
	profile Profile
	filter  *normalize.Filter
	logger  *slog.Logger
	now     time.Time
}

// NewLineExtractor builds a line-mode extractor for an institution profile.
func NewLineExtractor(profile Profile, logger *slog.Logger) *LineExtractor {
	return &LineExtractor{
		profile: profile,
		filter: normalize.NewFilter(normalize.FilterConfig{
			ExtraSkipPatterns: profile.SkipPatterns,
		}),
		logger: logger,
		now:    time.Now(),
	}
}

// Extract runs the section state machine over the whole text and returns
// every candidate that survives the skip filter. Lines that fail the row
// match are dropped silently at debug level. The year anchor is searched
// in the text itself.
func (e *LineExtractor) Extract(text string) []Candidate {
	return e.ExtractWithAnchor(text, normalize.YearAnchor{})
}

// ExtractWithAnchor scans with a caller-supplied year anchor. Callers that
// see more of the document than the scanned fragment (a single paragraph
// of a larger page) pass the document-level anchor here so partial dates
// resolve against the statement period, not the fragment. Without a found
// anchor the text is searched as in Extract.
func (e *LineExtractor) ExtractWithAnchor(text string, anchor normalize.YearAnchor) []Candidate {
	if !anchor.Found {
		anchor = normalize.FindYearAnchor(text)
	}

	var out []Candidate
	state := sectionUnknown
	for _, line := range strings.Split(text, "\n") {
		var c *Candidate
		state, c = e.scanLine(line, state, anchor)
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// scanLine advances the state machine by one line. Section transitions are
// checked first so a header both flips the state and is consumed; the skip
// filter then discards non-transaction lines before row matching.
func (e *LineExtractor) scanLine(line string, state section, anchor normalize.YearAnchor) (section, *Candidate) {
	trimmed := strings.TrimSpace(line)
	if next, flipped := e.sectionFor(trimmed); flipped {
		return next, nil
	}
	if e.filter.SkipLine(trimmed) {
		return state, nil
	}

	if state == sectionChecks {
		if c := e.matchCheck(trimmed, anchor); c != nil {
			return state, c
		}
	}

	c := e.matchTransaction(trimmed, state, anchor)
	return state, c
}

func (e *LineExtractor) sectionFor(line string) (section, bool) {
	for _, p := range e.profile.ReceiptSections {
		if p.MatchString(line) {
			return sectionReceipts, true
		}
	}
	for _, p := range e.profile.DisbursementSections {
		if p.MatchString(line) {
			return sectionDisbursements, true
		}
	}
	for _, p := range e.profile.CheckSections {
		if p.MatchString(line) {
			return sectionChecks, true
		}
	}
	return sectionUnknown, false
}

func (e *LineExtractor) matchTransaction(line string, state section, anchor normalize.YearAnchor) *Candidate {
	m := transactionLine.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	date, err := e.resolveDate(m[1], anchor)
	if err != nil {
		e.logger.Debug("line dropped: bad date", "token", m[1], "line", line)
		return nil
	}
	amount, err := normalize.ParseAmount(m[3])
	if err != nil {
		e.logger.Debug("line dropped: bad amount", "token", m[3], "line", line)
		return nil
	}
	desc := strings.Join(strings.Fields(m[2]), " ")
	if reason := e.filter.RejectCandidate(desc, amount); reason != "" {
		e.logger.Debug("line dropped", "reason", reason, "line", line)
		return nil
	}

	return &Candidate{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Hint:        hintFor(state),
		Raw:         line,
	}
}

func (e *LineExtractor) matchCheck(line string, anchor normalize.YearAnchor) *Candidate {
	m := checkLine.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	date, err := e.resolveDate(m[1], anchor)
	if err != nil {
		return nil
	}
	amount, err := normalize.ParseAmount(m[3])
	if err != nil {
		return nil
	}
	return &Candidate{
		Date:        date,
		Description: "Check " + m[2],
		Amount:      amount,
		CheckNumber: m[2],
		Hint:        HintDisbursement,
		Raw:         line,
	}
}

func (e *LineExtractor) resolveDate(token string, anchor normalize.YearAnchor) (time.Time, error) {
	if normalize.IsPartialDate(token) {
		return normalize.ResolvePartialDate(token, anchor, e.now)
	}
	return normalize.ParseDate(token)
}

func hintFor(state section) DirectionHint {
	switch state {
	case sectionReceipts:
		return HintReceipt
	case sectionDisbursements, sectionChecks:
		return HintDisbursement
	default:
		return HintNone
	}
}
