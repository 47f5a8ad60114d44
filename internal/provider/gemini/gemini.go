package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/praxisllmlab/dongchaLLM/internal/model"
	"github.com/praxisllmlab/dongchaLLM/internal/provider"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Provider implements the Google Gemini generateContent contract.
type Provider struct {
	spec    provider.Spec
	baseURL string
	client  *http.Client
}

func init() {
	provider.Register("gemini", New)
}

func New(spec provider.Spec) (provider.Provider, error) {
	base := spec.APIBase
	if base == "" {
		base = defaultBaseURL
	}
	return &Provider{spec: spec, baseURL: base, client: &http.Client{}}, nil
}

func (p *Provider) Name() string { return p.spec.Name }

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *Provider) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResponse, error) {
	data, err := json.Marshal(p.requestBody(req))
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.spec.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create gemini request: %w", err)
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

	var gr geminiResponse
	_ = json.Unmarshal(raw, &gr)

	var text strings.Builder
	if len(gr.Candidates) > 0 {
		for _, part := range gr.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}
	completion := text.String()
	if completion == "" {
		completion = string(raw)
	}

	return provider.BuildResponse(p.spec.Name, completion, p.spec.Marker, raw), nil
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

// setupHeaders sends the API key as a header, never in the URL: a
// failed request embeds the full URL in the error message, which ends
// up in logs.
func (p *Provider) setupHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if p.spec.APIKey != "" {
		req.Header.Set("x-goog-api-key", p.spec.APIKey)
	}
}

func (p *Provider) requestBody(req *model.AnalysisRequest) map[string]any {
	msgs := provider.BuildMessages(req, p.spec.Marker)

	// Gemini carries the system prompt separately and uses
	// user/model roles for the turn list.
	var system string
	contents := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == "system" {
			system = m.Content
			continue
		}
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, map[string]any{
			"role":  role,
			"parts": []map[string]any{{"text": m.Content}},
		})
	}

	body := map[string]any{"contents": contents}
	if system != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": system}},
		}
	}

	genConfig := map[string]any{}
	if p.spec.Temperature > 0 {
		genConfig["temperature"] = p.spec.Temperature
	}
	if p.spec.MaxTokens > 0 {
		genConfig["maxOutputTokens"] = p.spec.MaxTokens
	}
	if len(genConfig) > 0 {
		body["generationConfig"] = genConfig
	}
	return body
}

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
			Status  string `json:"status"`
		} `json:"error"`
	}

	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	errType := "api_error"
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
		errType = errResp.Error.Status
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
