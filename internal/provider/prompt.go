package provider

import (
	"fmt"
	"strings"

	"github.com/praxisllmlab/dongchaLLM/internal/model"
)

// systemPromptTemplate instructs the model to wrap its structured
// answer in the configured marker tag.
const systemPromptTemplate = `You are a market impact analyst. Analyze the news or message the user sends.
Respond with a JSON object wrapped in <%[1]s></%[1]s> tags:
<%[1]s>{"summary": "one or two sentences", "impact_points": ["point 1", "point 2"], "sentiment": "bullish|bearish|neutral", "confidence": 0.0-1.0}</%[1]s>
Keep impact points concrete and specific.`

// BuildMessages converts an AnalysisRequest into the chat turn list
// sent upstream: system prompt, prior context, then the text to analyze.
func BuildMessages(req *model.AnalysisRequest, marker string) []model.Message {
	msgs := make([]model.Message, 0, len(req.Context)+2)
	msgs = append(msgs, model.Message{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptTemplate, marker),
	})
	msgs = append(msgs, req.Context...)

	text := req.Text
	if len(req.Hints) > 0 {
		text += "\n\nClassification hints: " + strings.Join(req.Hints, ", ")
	}
	msgs = append(msgs, model.Message{Role: "user", Content: text})
	return msgs
}
