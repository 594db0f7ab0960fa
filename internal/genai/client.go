// Package genai provides the text-generation collaborator: a Go client for
// the Anthropic Messages API that produces the counter-argument for each
// debate round.
//
// The call is treated as an untrusted, possibly-failing remote dependency:
// every request carries a context deadline, output length is capped by
// max_tokens, and a non-200 status or an empty reply surfaces as an error so
// the round is never persisted half-done.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// systemPrompt frames the model as the standing opponent. Round count and
// reply length rules mirror the product contract (3 rounds, 80–150 words).
const systemPrompt = `You are a world-class debater participating in a competitive debate platform. Your role is to argue AGAINST the human's position with intellectual rigor, evidence, and rhetorical precision.

RULES:
1. Always steelman your position — argue the strongest possible version of the opposing case
2. Never strawman the human's argument — engage honestly with their actual points
3. Use concrete evidence, logical reasoning, and compelling rhetoric
4. Keep responses between 80-150 words — concise and punchy, not academic
5. Match the tone — if they're casual, be casual but sharp. If formal, match it.
6. Each round should build on previous arguments, not repeat them
7. Acknowledge strong points the human makes, then counter them
8. Be respectful but confident — you're here to win

You will receive the debate topic, which round this is, and the full conversation history.`

// ErrEmptyReply is returned when the API answers 200 but carries no usable
// text block.
var ErrEmptyReply = errors.New("genai: empty reply from model")

// Exchange is one prior round of the conversation, in order.
type Exchange struct {
	UserArgument string
	AIArgument   string
}

// ArgumentRequest carries everything the model needs to answer one round.
type ArgumentRequest struct {
	Topic        string
	RoundNumber  int
	History      []Exchange
	UserArgument string
}

// Generator is the contract consumed by the round controller. Implementations
// must honor ctx for cancellation and return a non-empty reply or an error.
type Generator interface {
	CounterArgument(ctx context.Context, req ArgumentRequest) (string, error)
}

// Client calls the Anthropic Messages API over plain HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	version    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (tests point this at httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a Messages API client. maxTokens is the hard output-length
// budget applied to every call; values <= 0 fall back to 300, matching the
// per-round cost ceiling.
func NewClient(apiKey, model string, maxTokens int, timeout time.Duration, opts ...Option) *Client {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    "https://api.anthropic.com",
		version:    "2023-06-01",
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// message is one turn of the Messages API conversation.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesRequest is the POST /v1/messages payload.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

// messagesResponse is the subset of the reply we consume.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// CounterArgument generates the model's rebuttal for one round. Prior rounds
// are replayed as alternating user/assistant turns so each reply builds on
// the running exchange; the current argument is framed with the topic and
// round number.
func (c *Client) CounterArgument(ctx context.Context, req ArgumentRequest) (string, error) {
	msgs := make([]message, 0, 2*len(req.History)+1)
	for _, ex := range req.History {
		msgs = append(msgs,
			message{Role: "user", Content: ex.UserArgument},
			message{Role: "assistant", Content: ex.AIArgument},
		)
	}
	msgs = append(msgs, message{
		Role: "user",
		Content: fmt.Sprintf("[Round %d of 3 — Topic: %q]\n\n%s",
			req.RoundNumber, req.Topic, req.UserArgument),
	})

	payload := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages:  msgs,
	}

	start := time.Now()
	reply, status, err := c.doMessages(ctx, payload)
	observe(status, time.Since(start))
	if err != nil {
		return "", err
	}
	return reply, nil
}

// doMessages performs the HTTP round trip and extracts the first text block.
// The returned status is 0 when the request never reached the API.
func (c *Client) doMessages(ctx context.Context, payload messagesRequest) (string, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, fmt.Errorf("genai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", c.version)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("genai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Bound the error payload we echo into logs.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", resp.StatusCode, fmt.Errorf("genai: API status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", resp.StatusCode, fmt.Errorf("genai: decode response: %w", err)
	}
	for _, block := range out.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, resp.StatusCode, nil
		}
	}
	return "", resp.StatusCode, ErrEmptyReply
}

var (
	// genReqs counts generation calls by outcome status ("200", "429",
	// "0" for transport errors).
	genReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genai_requests_total",
			Help: "Total number of text-generation API calls.",
		},
		[]string{"status"},
	)

	// genLat records generation latency; buckets cover the low-seconds
	// expectation of the upstream model.
	genLat = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "genai_request_duration_seconds",
			Help:    "Duration of text-generation API calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(genReqs, genLat)
}

func observe(status int, d time.Duration) {
	genReqs.WithLabelValues(strconv.Itoa(status)).Inc()
	genLat.Observe(d.Seconds())
}
