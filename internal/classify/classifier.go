// Package classify assigns statutory court-accounting categories to
// transactions. A single Aho-Corasick pass finds every keyword hit across
// all rules at once; a fuzzy pass catches OCR-mangled keywords the exact
// matcher misses.
package classify

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/rozsagyenelaw/accounting-app/internal/ledger"
)

// Result is the classifier's verdict for one transaction.
type Result struct {
	Code            string
	Category        string
	SubCategory     string
	Confidence      int // 0-100
	MatchedKeywords []string
}

// patternRef ties a matcher pattern index back to its rule.
type patternRef struct {
	ruleIdx int
	weight  int
	text    string
}

// Classifier holds the compiled rule set. Build once, share read-only
// across file parses.
type Classifier struct {
	rules   []Rule
	matcher *ahocorasick.Matcher
	refs    [][]patternRef // per matcher pattern index
	maxW    []int          // per rule: highest single pattern weight
}

// New compiles the statutory rule set.
func New() *Classifier {
	return NewWithRules(Rules())
}

// NewWithRules compiles an explicit rule list; rule order fixes the
// tie-break.
func NewWithRules(rules []Rule) *Classifier {
	c := &Classifier{rules: rules, maxW: make([]int, len(rules))}

	patternIndex := make(map[string]int)
	var patterns [][]byte
	for ri, rule := range rules {
		for _, p := range rule.Patterns {
			text := strings.ToUpper(p.Text)
			idx, exists := patternIndex[text]
			if !exists {
				idx = len(patterns)
				patternIndex[text] = idx
				patterns = append(patterns, []byte(text))
				c.refs = append(c.refs, nil)
			}
			c.refs[idx] = append(c.refs[idx], patternRef{ruleIdx: ri, weight: p.Weight, text: text})
			if p.Weight > c.maxW[ri] {
				c.maxW[ri] = p.Weight
			}
		}
	}
	if len(patterns) > 0 {
		c.matcher = ahocorasick.NewMatcher(patterns)
	}
	return c
}

// Classify scores every rule of the transaction's direction against the
// description and returns the winner. Identical input always yields an
// identical result: scoring is a pure function of the rule set, and ties
// break toward the first-declared rule.
func (c *Classifier) Classify(description string, direction ledger.Direction) Result {
	desc := strings.ToUpper(description)

	scores := make(map[int]int)
	matched := make(map[int][]string)
	c.scoreExact(desc, direction, scores, matched)
	if len(scores) == 0 {
		c.scoreFuzzy(desc, direction, scores, matched)
	}

	best := -1
	for ri := range c.rules {
		score, hit := scores[ri]
		if !hit {
			continue
		}
		if best == -1 || score > scores[best] {
			best = ri
		}
	}
	if best == -1 {
		return c.unmatched(direction)
	}

	rule := c.rules[best]
	confidence := 0
	if c.maxW[best] > 0 {
		confidence = scores[best] * 100 / c.maxW[best]
	}
	if confidence > 100 {
		confidence = 100
	}
	return Result{
		Code:            rule.Code,
		Category:        rule.Name,
		SubCategory:     rule.SubCategory,
		Confidence:      confidence,
		MatchedKeywords: matched[best],
	}
}

// scoreExact accumulates weights from the single Aho-Corasick pass.
func (c *Classifier) scoreExact(desc string, direction ledger.Direction, scores map[int]int, matched map[int][]string) {
	if c.matcher == nil {
		return
	}
	for _, idx := range c.matcher.Match([]byte(desc)) {
		if idx < 0 || idx >= len(c.refs) {
			continue
		}
		for _, ref := range c.refs[idx] {
			if c.rules[ref.ruleIdx].Direction != direction {
				continue
			}
			scores[ref.ruleIdx] += ref.weight
			matched[ref.ruleIdx] = append(matched[ref.ruleIdx], ref.text)
		}
	}
}

// scoreFuzzy retries each pattern against same-length word windows of the
// description, tolerating one character of OCR damage. Fuzzy hits score at
// half weight so an exact match on another rule always beats them.
func (c *Classifier) scoreFuzzy(desc string, direction ledger.Direction, scores map[int]int, matched map[int][]string) {
	words := strings.Fields(desc)
	if len(words) == 0 {
		return
	}
	for ri, rule := range c.rules {
		if rule.Direction != direction {
			continue
		}
		for _, p := range rule.Patterns {
			pattern := strings.ToUpper(p.Text)
			if fuzzyContains(words, pattern) {
				scores[ri] += p.Weight / 2
				matched[ri] = append(matched[ri], pattern)
			}
		}
	}
}

// fuzzyContains slides a window of the pattern's word count across the
// description and accepts a Levenshtein distance of at most one.
func fuzzyContains(words []string, pattern string) bool {
	span := len(strings.Fields(pattern))
	if span == 0 || span > len(words) {
		return false
	}
	for i := 0; i+span <= len(words); i++ {
		window := strings.Join(words[i:i+span], " ")
		if fuzzy.LevenshteinDistance(window, pattern) <= 1 {
			return true
		}
	}
	return false
}

// unmatched returns the catch-all category at near-zero confidence rather
// than failing the transaction.
func (c *Classifier) unmatched(direction ledger.Direction) Result {
	if direction == ledger.Receipt {
		return Result{Code: CodeOtherReceipts, Category: "Other Receipts", Confidence: 5}
	}
	return Result{Code: CodeOtherDisbursement, Category: "Other Disbursements", Confidence: 5}
}
