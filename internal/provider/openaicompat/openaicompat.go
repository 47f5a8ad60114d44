package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/praxisllmlab/dongchaLLM/internal/model"
	"github.com/praxisllmlab/dongchaLLM/internal/provider"
)

const defaultBaseURL = "https://api.openai.com/v1"

// maxErrorExcerpt bounds how much of an upstream payload ends up in
// error messages and logs. Credentials never appear in response bodies,
// but full payloads are noise.
const maxErrorExcerpt = 200

// Provider implements the OpenAI chat-completions wire contract.
// Any service exposing the same shape (Groq, Together, vLLM, ...) can
// reuse it with a different base URL.
type Provider struct {
	spec    provider.Spec
	baseURL string
	client  *http.Client
}

func init() {
	provider.Register("openai", New)
}

// New constructs a Provider from a Spec, defaulting to the OpenAI endpoint.
func New(spec provider.Spec) (provider.Provider, error) {
	return NewWithBaseURL(defaultBaseURL)(spec)
}

// NewWithBaseURL returns a factory pinned to the given endpoint.
// Used by sibling packages (groq) that are OpenAI-compatible services
// distinguished only by their base URL.
func NewWithBaseURL(baseURL string) provider.Factory {
	return func(spec provider.Spec) (provider.Provider, error) {
		base := spec.APIBase
		if base == "" {
			base = baseURL
		}
		return &Provider{
			spec:    spec,
			baseURL: base,
			client:  &http.Client{},
		}, nil
	}
}

func (p *Provider) Name() string { return p.spec.Name }

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	// Some compatible servers return the completion as a flat field.
	Text       string `json:"text"`
	OutputText string `json:"output_text"`
}

func (p *Provider) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResponse, error) {
	body := map[string]any{
		"model":    p.spec.Model,
		"messages": provider.BuildMessages(req, p.spec.Marker),
	}
	if p.spec.Temperature > 0 {
		body["temperature"] = p.spec.Temperature
	}
	if p.spec.MaxTokens > 0 {
		body["max_tokens"] = p.spec.MaxTokens
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p.setupHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, p.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.parseErrorResponse(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, p.transportError(err)
	}

	var cr chatResponse
	// A body that is not even JSON still goes through text extraction
	// rather than failing the attempt.
	_ = json.Unmarshal(raw, &cr)

	text := cr.Text
	if text == "" {
		text = cr.OutputText
	}
	if len(cr.Choices) > 0 && cr.Choices[0].Message.Content != "" {
		text = cr.Choices[0].Message.Content
	}
	if text == "" {
		text = string(raw)
	}

	return provider.BuildResponse(p.spec.Name, text, p.spec.Marker, raw), nil
}

func (p *Provider) HealthCheck(ctx context.Context) model.HealthStatus {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return model.HealthStatus{Error: err.Error()}
	}
	p.setupHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	latency := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		return model.HealthStatus{LatencyMS: latency, Error: err.Error()}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return model.HealthStatus{
			LatencyMS: latency,
			Error:     fmt.Sprintf("status %d", resp.StatusCode),
		}
	}
	return model.HealthStatus{Healthy: true, LatencyMS: latency}
}

func (p *Provider) setupHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if p.spec.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.spec.APIKey)
	}
}

// transportError classifies a client-level failure into the sentinel taxonomy.
func (p *Provider) transportError(err error) error {
	sentinel := model.ErrUpstream
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		sentinel = model.ErrTimeout
	}
	return &model.DongchaError{
		Message:  err.Error(),
		Type:     "transport_error",
		Provider: p.spec.Name,
		Model:    p.spec.Model,
		Err:      sentinel,
	}
}

func (p *Provider) parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	msg := excerpt(body)
	errType := "api_error"
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
		errType = errResp.Error.Type
	}

	return &model.DongchaError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Type:       errType,
		Provider:   p.spec.Name,
		Model:      p.spec.Model,
		Err:        model.MapHTTPStatusToError(resp.StatusCode),
	}
}

func excerpt(body []byte) string {
	if len(body) > maxErrorExcerpt {
		return string(body[:maxErrorExcerpt]) + "..."
	}
	return string(body)
}
