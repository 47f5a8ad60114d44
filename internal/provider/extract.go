package provider

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/praxisllmlab/dongchaLLM/internal/model"
)

// Confidence assigned by each extraction strategy when the payload
// carries none of its own. A provider that failed to emit the tagged
// block still produces a usable response, just a less trusted one.
const (
	confidenceMarker    = 0.9
	confidenceBraceScan = 0.75
	confidencePlainText = 0.4
)

// analysisPayload is the structured block providers are prompted to emit.
type analysisPayload struct {
	Summary      string   `json:"summary"`
	ImpactPoints []string `json:"impact_points"`
	Sentiment    string   `json:"sentiment,omitempty"`
	Confidence   float64  `json:"confidence,omitempty"`
}

// BuildResponse normalizes raw completion text into an AnalysisResponse.
// Extraction strategies, in order: a marker-delimited JSON block, a
// best-effort balanced-brace JSON scan, then a plain-text fallback.
func BuildResponse(providerName, text, marker string, raw []byte) *model.AnalysisResponse {
	resp := &model.AnalysisResponse{
		ID:       "insight-" + uuid.NewString(),
		Provider: providerName,
		Raw:      raw,
	}

	if p, ok := extractMarkerBlock(text, marker); ok {
		applyPayload(resp, p, confidenceMarker)
		return resp
	}
	if p, ok := extractBalancedJSON(text); ok {
		applyPayload(resp, p, confidenceBraceScan)
		return resp
	}

	applyPayload(resp, plainTextPayload(text), confidencePlainText)
	return resp
}

func applyPayload(resp *model.AnalysisResponse, p analysisPayload, defaultConfidence float64) {
	resp.Summary = strings.TrimSpace(p.Summary)
	resp.ImpactPoints = p.ImpactPoints
	resp.Sentiment = strings.ToLower(strings.TrimSpace(p.Sentiment))
	resp.Confidence = p.Confidence
	if resp.Confidence <= 0 {
		resp.Confidence = defaultConfidence
	}
	if resp.Confidence > 1 {
		resp.Confidence = 1
	}
}

// extractMarkerBlock looks for <marker>...</marker> and parses the body as JSON.
func extractMarkerBlock(text, marker string) (analysisPayload, bool) {
	var p analysisPayload
	if marker == "" {
		return p, false
	}
	open := "<" + marker + ">"
	closing := "</" + marker + ">"

	start := strings.Index(text, open)
	if start < 0 {
		return p, false
	}
	rest := text[start+len(open):]
	end := strings.Index(rest, closing)
	if end < 0 {
		return p, false
	}
	body := strings.TrimSpace(rest[:end])
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return analysisPayload{}, false
	}
	return p, p.Summary != "" || len(p.ImpactPoints) > 0
}

// extractBalancedJSON scans for the first balanced {...} region that
// parses as an analysis payload. String literals and escapes are
// honored so braces inside values do not break the depth count.
func extractBalancedJSON(text string) (analysisPayload, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(text); i++ {
			c := text[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\' && inString:
				escaped = true
			case c == '"':
				inString = !inString
			case inString:
			case c == '{':
				depth++
			case c == '}':
				depth--
				if depth == 0 {
					var p analysisPayload
					if err := json.Unmarshal([]byte(text[start:i+1]), &p); err == nil &&
						(p.Summary != "" || len(p.ImpactPoints) > 0) {
						return p, true
					}
					// Not a payload; resume scanning after this region.
					start = i
					i = len(text)
				}
			}
		}
	}
	return analysisPayload{}, false
}

// plainTextPayload builds a best-effort payload from free text:
// first sentence becomes the summary, bullet or numbered lines become
// impact points.
func plainTextPayload(text string) analysisPayload {
	var p analysisPayload
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return p
	}

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if point, ok := stripBullet(line); ok {
			p.ImpactPoints = append(p.ImpactPoints, point)
		}
	}

	firstLine := strings.TrimSpace(strings.SplitN(trimmed, "\n", 2)[0])
	if i := strings.Index(firstLine, ". "); i > 0 {
		firstLine = firstLine[:i+1]
	}
	if _, isBullet := stripBullet(firstLine); !isBullet {
		p.Summary = firstLine
	} else if len(p.ImpactPoints) > 0 {
		p.Summary = p.ImpactPoints[0]
	}
	return p
}

// stripBullet removes a leading list marker ("- ", "* ", "• ", "1. ", "2) ").
func stripBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return strings.TrimSpace(rest), true
		}
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+2:]), true
	}
	return line, false
}
