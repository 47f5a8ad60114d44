package quality

import (
	"fmt"
	"strings"

	"github.com/praxisllmlab/dongchaLLM/internal/config"
	"github.com/praxisllmlab/dongchaLLM/internal/model"
)

// Score adjustments. The baseline and penalties are operational
// tuning knobs surfaced through config thresholds, not invariants.
const (
	baselineScore    = 100.0
	missingFieldDrop = 60.0
	lengthPenalty    = 15.0
	hedgingPenalty   = 5.0
	specificityBonus = 3.0
	specificityCap   = 15.0
	sentimentBonus   = 5.0
)

// boilerplatePrefixes are stripped by Fix before any other repair.
var boilerplatePrefixes = []string{
	"here is the analysis:",
	"here's the analysis:",
	"here is my analysis:",
	"sure, ",
	"certainly, ",
	"as an ai language model, ",
	"as an ai, ",
}

// Validator scores responses against structural and content rules.
// Validate is a pure function of the response and the configured
// thresholds; calling it twice on the same payload yields the same score.
type Validator struct {
	params config.QualityParams

	allowedSentiments map[string]bool
}

// NewValidator creates a Validator from config thresholds.
func NewValidator(params config.QualityParams) *Validator {
	allowed := make(map[string]bool, len(params.AllowedSentiments))
	for _, s := range params.AllowedSentiments {
		allowed[strings.ToLower(s)] = true
	}
	return &Validator{params: params, allowedSentiments: allowed}
}

// Validate scores a response. Valid requires both the score threshold
// and the issue cap: many small problems cannot be offset by one
// large bonus.
func (v *Validator) Validate(resp *model.AnalysisResponse) model.QualityScore {
	score := baselineScore
	var issues []string

	// Required fields first: missing structure short-circuits.
	if strings.TrimSpace(resp.Summary) == "" {
		return v.invalid(score-missingFieldDrop, append(issues, "missing summary"))
	}
	if len(resp.ImpactPoints) < v.params.MinImpactPoints {
		issues = append(issues, fmt.Sprintf("insufficient impact points: %d < %d",
			len(resp.ImpactPoints), v.params.MinImpactPoints))
		return v.invalid(score-missingFieldDrop, issues)
	}

	if len(resp.Summary) < v.params.SummaryMinLen {
		score -= lengthPenalty
		issues = append(issues, "summary too short")
	}
	if len(resp.Summary) > v.params.SummaryMaxLen {
		score -= lengthPenalty
		issues = append(issues, "summary too long")
	}
	if len(resp.ImpactPoints) > v.params.MaxImpactPoints {
		score -= lengthPenalty
		issues = append(issues, fmt.Sprintf("too many impact points: %d > %d",
			len(resp.ImpactPoints), v.params.MaxImpactPoints))
	}
	for i, point := range resp.ImpactPoints {
		if len(point) < v.params.PointMinLen || len(point) > v.params.PointMaxLen {
			score -= lengthPenalty
			issues = append(issues, fmt.Sprintf("impact point %d outside length bounds", i))
		}
	}

	content := strings.ToLower(resp.Summary + " " + strings.Join(resp.ImpactPoints, " "))

	if n := countPhrases(content, v.params.HedgingPhrases); n > 0 {
		score -= hedgingPenalty * float64(n)
		issues = append(issues, fmt.Sprintf("hedging language: %d occurrence(s)", n))
	}

	if n := countPhrases(content, v.params.SpecificityPhrases); n > 0 {
		bonus := specificityBonus * float64(n)
		if bonus > specificityCap {
			bonus = specificityCap
		}
		score += bonus
	}

	if resp.Sentiment != "" {
		if v.allowedSentiments[resp.Sentiment] {
			score += sentimentBonus
		} else {
			issues = append(issues, fmt.Sprintf("invalid sentiment %q", resp.Sentiment))
		}
	}

	score = clamp(score, 0, baselineScore+sentimentBonus+specificityCap)
	valid := score >= v.params.MinScore && len(issues) <= v.params.MaxIssues

	return model.QualityScore{
		Score:      score,
		Issues:     issues,
		Valid:      valid,
		Confidence: clamp(score/baselineScore, 0, 1),
	}
}

// Fix attempts deterministic repairs: strip boilerplate prefixes and
// bullet markers, truncate over-length text at a word boundary, drop
// an invalid sentiment, drop unusable points and clamp the count.
// Returns nil when fewer than the minimum impact points survive.
// The input is never mutated.
func (v *Validator) Fix(resp *model.AnalysisResponse) *model.AnalysisResponse {
	fixed := resp.Clone()

	fixed.Summary = stripBoilerplate(strings.TrimSpace(fixed.Summary))
	if len(fixed.Summary) > v.params.SummaryMaxLen {
		fixed.Summary = truncateAtWord(fixed.Summary, v.params.SummaryMaxLen)
	}

	points := fixed.ImpactPoints[:0]
	for _, point := range fixed.ImpactPoints {
		point = stripBoilerplate(stripListMarker(strings.TrimSpace(point)))
		if len(point) < v.params.PointMinLen {
			continue
		}
		if len(point) > v.params.PointMaxLen {
			point = truncateAtWord(point, v.params.PointMaxLen)
		}
		points = append(points, point)
	}
	if len(points) > v.params.MaxImpactPoints {
		points = points[:v.params.MaxImpactPoints]
	}
	fixed.ImpactPoints = points

	if fixed.Sentiment != "" && !v.allowedSentiments[fixed.Sentiment] {
		fixed.Sentiment = ""
	}

	if fixed.Summary == "" || len(fixed.ImpactPoints) < v.params.MinImpactPoints {
		return nil
	}
	return fixed
}

func (v *Validator) invalid(score float64, issues []string) model.QualityScore {
	score = clamp(score, 0, baselineScore)
	return model.QualityScore{
		Score:      score,
		Issues:     issues,
		Valid:      false,
		Confidence: clamp(score/baselineScore, 0, 1),
	}
}

func countPhrases(content string, phrases []string) int {
	total := 0
	for _, phrase := range phrases {
		total += strings.Count(content, strings.ToLower(phrase))
	}
	return total
}

func stripBoilerplate(s string) string {
	lower := strings.ToLower(s)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}

func stripListMarker(s string) string {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

// truncateAtWord cuts s to at most max bytes, backing up to the last
// space so words stay whole.
func truncateAtWord(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
