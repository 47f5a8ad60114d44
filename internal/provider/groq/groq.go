package groq

import (
	"github.com/praxisllmlab/dongchaLLM/internal/provider"
	"github.com/praxisllmlab/dongchaLLM/internal/provider/openaicompat"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

func init() {
	provider.Register("groq", openaicompat.NewWithBaseURL(defaultBaseURL))
}
