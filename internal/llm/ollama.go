package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/ankigen/internal/util"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	ollamaDefaultURL   = "http://localhost:11434"
	ollamaDefaultModel = "llama3.1:8b"
)

// OllamaProvider implements the Provider interface for local Ollama models
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
	config     Config
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" || strings.Contains(baseURL, "api.openai.com") {
		baseURL = ollamaDefaultURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", baseURL, err)
	}

	model := config.Model
	if model == "" || strings.HasPrefix(model, "gpt-") {
		model = ollamaDefaultModel
	}

	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: config.timeout(60 * time.Second), // local models can be slow
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks that the Ollama server answers on /api/tags
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Complete generates a reply through the langchaingo Ollama client
func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	opts := []ollama.Option{
		ollama.WithServerURL(p.baseURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(p.httpClient),
	}
	if req.JSONMode {
		opts = append(opts, ollama.WithFormat("json"))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.User),
	}

	resp, err := client.GenerateContent(ctx, messages,
		llms.WithTemperature(req.Temperature),
		llms.WithMaxTokens(p.config.maxTokens(req)),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("ollama: %w", ErrNoChoices)
	}

	content := strings.TrimSpace(resp.Choices[0].Content)

	return &CompletionResponse{
		Content:    content,
		Model:      model,
		TokensUsed: estimateTokens(req.System, req.User, content),
	}, nil
}
