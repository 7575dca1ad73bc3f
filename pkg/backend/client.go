package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Every remote call carries this budget. Exceeding it fails with a
// TimeoutError, distinct from generic network failure.
const (
	requestTimeout = 15 * time.Second
	probeTimeout   = 3 * time.Second
)

type IBackend interface {
	Health(ctx context.Context) error
	GetConfig(ctx context.Context) (*ConfigInfo, error)
	ProcessCommand(ctx context.Context, transcript string) (*Interpretation, error)
	Legal(ctx context.Context, statute string) (string, error)
	Threat(ctx context.Context, situation string) (string, error)
	Tactical(ctx context.Context, situation string) (string, error)
	General(ctx context.Context, query string) (string, error)
	Synthesize(ctx context.Context, text, voice string) ([]byte, bool, error)
}

// Interpretation is the structured command the remote interpreter returns
// for a transcript.
type Interpretation struct {
	Success    bool                   `json:"success"`
	Command    string                 `json:"command"`
	Action     string                 `json:"action"`
	Parameters map[string]string      `json:"parameters"`
	Executed   bool                   `json:"executed"`
	Result     string                 `json:"result"`
	Error      string                 `json:"error"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type ConfigInfo struct {
	OpenAIConfigured bool
}

type envelope struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
	Error   string `json:"error"`
}

type client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

func New(log *logrus.Logger) IBackend {
	baseURL := os.Getenv("BACKEND_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}

	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

func (c *client) Health(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, c.baseURL+"/health", nil)
	if err != nil {
		return &NetworkError{Op: "health", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport("health", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{Op: "health", StatusCode: resp.StatusCode}
	}

	return nil
}

func (c *client) GetConfig(ctx context.Context) (*ConfigInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config", nil)
	if err != nil {
		return nil, &NetworkError{Op: "config", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport("config", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Op: "config", StatusCode: resp.StatusCode}
	}

	var body struct {
		Config struct {
			OpenAI struct {
				Configured bool `json:"configured"`
			} `json:"openai"`
		} `json:"config"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ParseError{Op: "config", Err: err}
	}

	return &ConfigInfo{OpenAIConfigured: body.Config.OpenAI.Configured}, nil
}

func (c *client) ProcessCommand(ctx context.Context, transcript string) (*Interpretation, error) {
	raw, err := c.post(ctx, "process-command", "/openai/process-command", map[string]string{
		"transcript": transcript,
	})
	if err != nil {
		return nil, err
	}

	var interp Interpretation
	if err := json.Unmarshal(raw, &interp); err != nil {
		return nil, &ParseError{Op: "process-command", Err: err}
	}

	if !interp.Success {
		return nil, &HTTPError{Op: "process-command", StatusCode: http.StatusOK, Message: interp.Error}
	}

	return &interp, nil
}

func (c *client) Legal(ctx context.Context, statute string) (string, error) {
	return c.lookup(ctx, "legal", "/openai/legal", map[string]string{"statute": statute})
}

func (c *client) Threat(ctx context.Context, situation string) (string, error) {
	return c.lookup(ctx, "threat", "/openai/threat", map[string]string{"situation": situation})
}

func (c *client) Tactical(ctx context.Context, situation string) (string, error) {
	return c.lookup(ctx, "tactical", "/openai/tactical", map[string]string{"situation": situation})
}

func (c *client) General(ctx context.Context, query string) (string, error) {
	return c.lookup(ctx, "general", "/openai/general", map[string]string{"query": query})
}

// Synthesize returns raw audio bytes plus whether the backend served the
// clip from its own cache (X-Cache header).
func (c *client) Synthesize(ctx context.Context, text, voice string) ([]byte, bool, error) {
	payload, err := json.Marshal(map[string]string{"text": text, "voice": voice})
	if err != nil {
		return nil, false, &NetworkError{Op: "tts", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/openai/tts", bytes.NewReader(payload))
	if err != nil {
		return nil, false, &NetworkError{Op: "tts", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, classifyTransport("tts", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, c.decodeFailure("tts", resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, &NetworkError{Op: "tts", Err: err}
	}

	cacheHit := strings.EqualFold(resp.Header.Get("X-Cache"), "HIT")
	return audio, cacheHit, nil
}

// lookup posts a request and unwraps the {success, result, error} envelope.
func (c *client) lookup(ctx context.Context, op, path string, body map[string]string) (string, error) {
	raw, err := c.post(ctx, op, path, body)
	if err != nil {
		return "", err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", &ParseError{Op: op, Err: err}
	}

	if !env.Success {
		return "", &HTTPError{Op: op, StatusCode: http.StatusOK, Message: env.Error}
	}

	return env.Result, nil
}

func (c *client) post(ctx context.Context, op, path string, body map[string]string) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(op, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"op":         op,
		"status":     resp.StatusCode,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("Backend call completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.decodeFailure(op, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	return raw, nil
}

func (c *client) decodeFailure(op string, resp *http.Response) error {
	httpErr := &HTTPError{Op: op, StatusCode: resp.StatusCode}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error != "" {
		httpErr.Message = env.Error
	}

	return httpErr
}

func classifyTransport(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Op: op, Err: err}
	}

	return &NetworkError{Op: op, Err: err}
}
