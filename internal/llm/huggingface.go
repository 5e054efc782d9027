package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feels/internal/model"
	"github.com/ppiankov/feels/internal/util"
)

const (
	defaultHFBaseURL = "https://api-inference.huggingface.co/models"
	defaultHFModel   = "cardiffnlp/twitter-roberta-base-sentiment"
)

// HuggingFaceProvider classifies text with a hosted text-classification model
type HuggingFaceProvider struct {
	apiKey     string
	baseURL    string
	modelName  string
	httpClient *http.Client
	fetcher    *LabelFetcher
	timeout    time.Duration
	config     Config
	logger     zerolog.Logger

	labelsOnce sync.Once
	labels     map[int]string
}

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// NewHuggingFaceProvider creates a new Hugging Face Inference provider
func NewHuggingFaceProvider(config Config) (*HuggingFaceProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	modelName := config.Model
	if modelName == "" {
		modelName = defaultHFModel
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HuggingFaceProvider{
		apiKey:    config.APIKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		modelName: modelName,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: util.NewTransport(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
		fetcher: NewLabelFetcher(timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		timeout: timeout,
		config:  config,
		logger:  config.Logger.With().Str("provider", "huggingface").Logger(),
	}, nil
}

// Name returns the provider name
func (p *HuggingFaceProvider) Name() string {
	return "huggingface"
}

// IsAvailable checks that the model endpoint answers
func (p *HuggingFaceProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint(), nil)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Hugging Face availability check failed (request creation)")
		return false
	}
	p.authorize(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Hugging Face availability check failed (connection)")
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn().Int("status", resp.StatusCode).Str("model", p.modelName).Msg("Hugging Face availability check failed")
		return false
	}
	return true
}

// Classify scores text and returns the highest-scoring label
func (p *HuggingFaceProvider) Classify(ctx context.Context, text string) (model.Sentiment, error) {
	scores, err := p.makeRequest(ctx, text)
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("Hugging Face API error: %w", err)
	}
	if len(scores) == 0 {
		return model.Sentiment{}, fmt.Errorf("no scores in Hugging Face response")
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	label := p.mapLabel(ctx, best.Label)
	p.logger.Debug().Str("raw_label", best.Label).Str("label", label).Float64("score", best.Score).Msg("Classification scores received")

	return model.NewSentiment(label, best.Score), nil
}

// Labels returns the vocabulary used to name LABEL_i outputs. It is fetched
// once per provider, detached from ctx cancellation and bounded by the
// provider timeout.
func (p *HuggingFaceProvider) Labels(ctx context.Context) map[int]string {
	p.labelsOnce.Do(func() {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		labels, err := p.fetcher.Load(fetchCtx, p.config.LabelsURL)
		if err != nil {
			p.logger.Warn().Err(err).Str("url", p.config.LabelsURL).Msg("Using default label vocabulary")
		}
		p.labels = labels
	})
	return p.labels
}

func (p *HuggingFaceProvider) mapLabel(ctx context.Context, raw string) string {
	idx, ok := strings.CutPrefix(raw, "LABEL_")
	if !ok {
		return raw
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return raw
	}
	if name, ok := p.Labels(ctx)[n]; ok {
		return name
	}
	return raw
}

func (p *HuggingFaceProvider) endpoint() string {
	return p.baseURL + "/" + p.modelName
}

func (p *HuggingFaceProvider) authorize(req *http.Request) {
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
}

// makeRequest posts text to the inference endpoint. The API nests scores one
// level per input; both the nested and flat shapes are accepted.
func (p *HuggingFaceProvider) makeRequest(ctx context.Context, text string) ([]hfScore, error) {
	body, err := json.Marshal(hfRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	p.authorize(httpReq)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr hfError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var nested [][]hfScore
	if err := json.Unmarshal(respBody, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []hfScore
	if err := json.Unmarshal(respBody, &flat); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return flat, nil
}
