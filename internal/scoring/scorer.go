package scoring

import (
	"math"
	"regexp"
	"strings"

	"invoice-reconciliation-service/internal/dates"
	"invoice-reconciliation-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Scorer computes match confidence between an extracted value and a trusted
// reference value. It is stateless apart from its immutable configuration
// and safe for concurrent use.
type Scorer struct {
	config *Config
	log    logger.Logger
}

// NewScorer creates a scorer with the given configuration. A nil config
// selects the default threshold profile.
func NewScorer(config *Config) *Scorer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scorer{
		config: config,
		log:    logger.GetGlobalLogger().WithComponent("scorer"),
	}
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() *Config {
	return s.config
}

// currencyStripper removes currency symbols and thousands separators before
// numeric parsing.
var currencyStripper = strings.NewReplacer("$", "", "₹", "", "€", "", "£", "", ",", "", " ", "")

// digitRun matches embedded numeric runs of at least four digits, used for
// identifier matching.
var digitRun = regexp.MustCompile(`[0-9]{4,}`)

// identifierSeparators are stripped or split on for identifier comparison.
const identifierSeparators = "-_/. "

// textSeparators split free text into tokens.
const textSeparators = "-_/ \t\n"

// Score maps a pair of raw values and a field name to a confidence in [0,1].
// It never panics: any unexpected failure inside a scoring branch degrades
// to 0.0 so one bad field cannot abort a whole report.
func (s *Scorer) Score(extracted, reference, fieldName string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logger.Fields{
				"field": fieldName,
				"panic": r,
			}).Error("scoring panicked, defaulting to 0.0")
			score = 0.0
		}
	}()

	extracted = strings.TrimSpace(extracted)
	reference = strings.TrimSpace(reference)

	// Consistent absence counts as agreement; one-sided absence never does.
	if extracted == "" && reference == "" {
		return 1.0
	}
	if extracted == "" || reference == "" {
		return 0.0
	}

	if normalizeText(extracted) == normalizeText(reference) {
		return 1.0
	}

	if s.config.IsIdentifierField(fieldName) && identifiersMatch(extracted, reference) {
		return s.config.IdentifierConfidence
	}

	if score, ok := s.scoreNumeric(extracted, reference, fieldName); ok {
		return score
	}

	if score, ok := s.scoreDates(extracted, reference, fieldName); ok {
		return score
	}

	return s.scoreText(extracted, reference)
}

// scoreNumeric handles the numeric branch. It applies only when both values
// parse as numbers after currency and separator stripping.
func (s *Scorer) scoreNumeric(extracted, reference, fieldName string) (float64, bool) {
	ext, ok := parseNumber(extracted)
	if !ok {
		return 0, false
	}
	ref, ok := parseNumber(reference)
	if !ok {
		return 0, false
	}

	// Amount-class fields compare integer-truncated values only; fractional
	// cents are upstream noise for these fields.
	if s.config.IsAmountField(fieldName) {
		ext = ext.Truncate(0)
		ref = ref.Truncate(0)
	}

	if ext.Equal(ref) {
		return 1.0, true
	}

	// A zero reference only ever matches a zero extraction; relative
	// difference is undefined against zero.
	if ref.IsZero() {
		return 0.0, true
	}

	diffRatio := ext.Sub(ref).Abs().Div(ref.Abs()).InexactFloat64()
	return s.config.NumericConfidence(diffRatio), true
}

// scoreDates handles the date branch. Period fields and values carrying the
// range separator are compared as date ranges; everything else is compared
// as single dates when both sides parse.
func (s *Scorer) scoreDates(extracted, reference, fieldName string) (float64, bool) {
	rangeStyle := s.config.IsPeriodField(fieldName) ||
		strings.Contains(extracted, dates.RangeSeparator) ||
		strings.Contains(reference, dates.RangeSeparator)

	if rangeStyle {
		extRange, extOK := dates.ParseRange(extracted)
		refRange, refOK := dates.ParseRange(reference)
		if extOK && refOK {
			if extRange.Equal(refRange) {
				return 1.0, true
			}
			startDays := dates.DaysBetween(extRange.Start, refRange.Start)
			endDays := dates.DaysBetween(extRange.End, refRange.End)
			days := startDays
			if endDays > days {
				days = endDays
			}
			return s.config.DateConfidence(days), true
		}
		// Fall through to single-date parsing when either side is not a
		// well-formed range.
	}

	extDate, extOK := dates.Parse(extracted)
	refDate, refOK := dates.Parse(reference)
	if !extOK || !refOK {
		return 0, false
	}

	if extDate.Equal(refDate) {
		return 1.0, true
	}
	return s.config.DateConfidence(dates.DaysBetween(extDate, refDate)), true
}

// scoreText is the free-text fallback: Jaccard similarity over token sets
// with a boost above 0.7, pass-through above 0.5, and a floored penalty
// below. Only when neither value yields tokens does character-set similarity
// take over; a one-sided tokenless value compares as ordinary disjoint text.
func (s *Scorer) scoreText(extracted, reference string) float64 {
	extTokens := tokenize(extracted)
	refTokens := tokenize(reference)

	if len(extTokens) == 0 && len(refTokens) == 0 {
		return round2(math.Max(charSetJaccard(extracted, reference)*0.8, 0.2))
	}

	similarity := jaccard(extTokens, refTokens)
	switch {
	case similarity > 0.7:
		return round2(math.Min(similarity+0.05, 1.0))
	case similarity > 0.5:
		return round2(similarity)
	default:
		return round2(math.Max(similarity-0.1, 0.3))
	}
}

// identifiersMatch implements the prefix/suffix identifier heuristics:
// token-segment subset, longest embedded numeric run containment, or a
// significant overlap of the alphanumeric cores.
func identifiersMatch(a, b string) bool {
	normA := strings.ToLower(strings.TrimSpace(a))
	normB := strings.ToLower(strings.TrimSpace(b))

	if tokenSubset(splitOn(normA, identifierSeparators), splitOn(normB, identifierSeparators)) {
		return true
	}

	runA := longestDigitRun(normA)
	runB := longestDigitRun(normB)
	if runA != "" && runB != "" {
		if runA == runB || strings.Contains(runA, runB) || strings.Contains(runB, runA) {
			return true
		}
	}

	return coreOverlap(alphanumericCore(normA), alphanumericCore(normB)) >= 0.7
}

// tokenSubset reports whether either token set is a non-empty subset of
// the other.
func tokenSubset(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return subset(a, b) || subset(b, a)
}

func subset(inner, outer []string) bool {
	set := make(map[string]bool, len(outer))
	for _, t := range outer {
		set[t] = true
	}
	for _, t := range inner {
		if !set[t] {
			return false
		}
	}
	return true
}

// longestDigitRun returns the longest embedded run of four or more digits.
func longestDigitRun(s string) string {
	longest := ""
	for _, run := range digitRun.FindAllString(s, -1) {
		if len(run) > len(longest) {
			longest = run
		}
	}
	return longest
}

// alphanumericCore strips everything but letters and digits.
func alphanumericCore(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// coreOverlap measures how much of the longer alphanumeric core the shorter
// one covers. Only containment counts: identifiers sharing a long prefix but
// diverging at the tail (a misread trailing digit) must not overlap, so the
// engine can flag them. Cores shorter than six characters carry too little
// signal and never overlap.
func coreOverlap(a, b string) float64 {
	if len(a) < 6 || len(b) < 6 {
		return 0.0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	return 0.0
}

// parseNumber parses a value as a decimal after stripping currency symbols
// and thousands separators.
func parseNumber(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(currencyStripper.Replace(s))
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normalizeText lowercases and collapses all whitespace to single spaces.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func splitOn(s, separators string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
}

func tokenize(s string) []string {
	return splitOn(strings.ToLower(s), textSeparators)
}

// jaccard computes Jaccard similarity between two token slices.
func jaccard(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// charSetJaccard computes Jaccard similarity over the distinct characters
// of both values, ignoring case and whitespace.
func charSetJaccard(a, b string) float64 {
	setA := charSet(a)
	setB := charSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for r := range setA {
		if setB[r] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func charSet(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range strings.ToLower(s) {
		if r != ' ' && r != '\t' && r != '\n' {
			set[r] = true
		}
	}
	return set
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
