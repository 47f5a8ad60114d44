package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResponse_MarkerBlock(t *testing.T) {
	text := `Some preamble from the model.
<analysis>
{"summary": "Fed raises rates by 25 basis points.", "impact_points": ["Borrowing costs rise", "Bank margins expand"], "sentiment": "Bearish", "confidence": 0.85}
</analysis>
Trailing chatter.`

	resp := BuildResponse("openai", text, "analysis", []byte(text))

	assert.Equal(t, "Fed raises rates by 25 basis points.", resp.Summary)
	assert.Equal(t, []string{"Borrowing costs rise", "Bank margins expand"}, resp.ImpactPoints)
	assert.Equal(t, "bearish", resp.Sentiment, "sentiment is lowercased")
	assert.Equal(t, 0.85, resp.Confidence)
	assert.Equal(t, "openai", resp.Provider)
	assert.True(t, strings.HasPrefix(resp.ID, "insight-"))
}

func TestBuildResponse_MarkerBlockDefaultConfidence(t *testing.T) {
	text := `<analysis>{"summary": "OPEC cuts output.", "impact_points": ["Oil prices rise"]}</analysis>`

	resp := BuildResponse("openai", text, "analysis", nil)

	assert.Equal(t, 0.9, resp.Confidence)
}

func TestBuildResponse_BalancedJSONFallback(t *testing.T) {
	text := `The model did not use the tags but emitted
{"summary": "Earnings beat {expectations}.", "impact_points": ["Shares up 5%"], "sentiment": "bullish"}
somewhere in its output.`

	resp := BuildResponse("gemini", text, "analysis", nil)

	assert.Equal(t, "Earnings beat {expectations}.", resp.Summary)
	assert.Equal(t, []string{"Shares up 5%"}, resp.ImpactPoints)
	assert.Equal(t, 0.75, resp.Confidence, "brace-scan extraction lowers confidence")
}

func TestBuildResponse_SkipsNonPayloadObjects(t *testing.T) {
	text := `{"unrelated": true} then {"summary": "Real payload.", "impact_points": ["One effect noted"]}`

	resp := BuildResponse("openai", text, "analysis", nil)

	assert.Equal(t, "Real payload.", resp.Summary)
}

func TestBuildResponse_PlainTextFallback(t *testing.T) {
	text := `Markets rallied after the announcement. Investors were relieved.
- Tech sector led the gains
- Bond yields eased slightly
1. Dollar weakened against majors`

	resp := BuildResponse("groq", text, "analysis", nil)

	assert.Equal(t, "Markets rallied after the announcement.", resp.Summary)
	assert.Equal(t, []string{
		"Tech sector led the gains",
		"Bond yields eased slightly",
		"Dollar weakened against majors",
	}, resp.ImpactPoints)
	assert.Equal(t, 0.4, resp.Confidence)
	assert.Empty(t, resp.Sentiment)
}

func TestBuildResponse_MalformedMarkerBodyFallsThrough(t *testing.T) {
	text := `<analysis>{not valid json</analysis> Markets fell sharply today.`

	resp := BuildResponse("openai", text, "analysis", nil)

	// Marker body is broken so extraction degrades to plain text.
	assert.Equal(t, 0.4, resp.Confidence)
	assert.NotEmpty(t, resp.Summary)
}

func TestBuildResponse_ConfidenceClampedToOne(t *testing.T) {
	text := `<analysis>{"summary": "Big news today indeed.", "impact_points": ["Effect one here"], "confidence": 3.5}</analysis>`

	resp := BuildResponse("openai", text, "analysis", nil)

	assert.Equal(t, 1.0, resp.Confidence)
}

func TestBuildResponse_EmptyText(t *testing.T) {
	resp := BuildResponse("openai", "", "analysis", nil)

	assert.Empty(t, resp.Summary)
	assert.Empty(t, resp.ImpactPoints)
}

func TestStripBullet(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		bullet bool
	}{
		{"- dash point", "dash point", true},
		{"* star point", "star point", true},
		{"• unicode point", "unicode point", true},
		{"1. numbered point", "numbered point", true},
		{"12) numbered point", "numbered point", true},
		{"no marker here", "no marker here", false},
		{"2023 was a year", "2023 was a year", false},
	}
	for _, tc := range cases {
		got, ok := stripBullet(tc.in)
		assert.Equal(t, tc.bullet, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestExtractBalancedJSON_NestedBraces(t *testing.T) {
	text := `{"summary": "Nested {braces} and \"quotes\" survive.", "impact_points": ["Point one here", "Point two here"]}`

	p, ok := extractBalancedJSON(text)
	require.True(t, ok)
	assert.Equal(t, `Nested {braces} and "quotes" survive.`, p.Summary)
	assert.Len(t, p.ImpactPoints, 2)
}
