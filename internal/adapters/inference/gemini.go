package inference

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// GeminiOption applies a configuration option to the GeminiClient.
type GeminiOption func(*GeminiClient)

// WithModel overrides the Gemini model name.
func WithModel(name string) GeminiOption {
	return func(c *GeminiClient) {
		if strings.TrimSpace(name) != "" {
			c.modelName = name
		}
	}
}

// WithTimeout bounds a single Score call. Kept to single-digit seconds
// so a slow inference backend degrades one sub-score instead of
// blocking a whole ranking request.
func WithTimeout(d time.Duration) GeminiOption {
	return func(c *GeminiClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// GeminiClient implements Client against the Gemini API. Each call sends
// a strict single-number prompt and parses the reply.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewGeminiClient creates a client configured for the Gemini API backend.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c := &GeminiClient{
		client:    client,
		modelName: defaultModel,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Score asks the model to rate text for the named feature and returns a
// value in [0,1].
func (c *GeminiClient) Score(ctx context.Context, feature, text string) (float64, error) {
	if c == nil || c.client == nil {
		return 0, ErrInference
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildScorePrompt(feature, text)
	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: %s", ErrTimeout, feature)
		}
		return 0, fmt.Errorf("%w: %v", ErrInference, err)
	}

	raw := firstText(resp)
	score, err := parseScore(raw)
	if err != nil {
		return 0, err
	}
	return score, nil
}

func buildScorePrompt(feature, text string) string {
	var b strings.Builder
	switch feature {
	case FeatureCulture:
		b.WriteString("Rate how well the candidate summary below fits the company culture described in the job posting.\n")
	default:
		b.WriteString("Rate how well the candidate summary below matches the personality traits the job posting below asks for.\n")
	}
	b.WriteString("Respond with a single decimal number between 0 and 1 and nothing else.\n\n")
	b.WriteString(text)
	return b.String()
}

// firstText extracts the first textual part of a response.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// parseScore accepts a bare number, tolerating surrounding whitespace or
// stray formatting, and clamps to [0,1].
func parseScore(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "`*\"'")
	if cleaned == "" {
		return 0, ErrBadScore
	}
	// Take the first whitespace-separated token; models occasionally
	// append an explanation despite the instruction.
	if idx := strings.IndexAny(cleaned, " \t\n"); idx > 0 {
		cleaned = cleaned[:idx]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadScore, raw)
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}
