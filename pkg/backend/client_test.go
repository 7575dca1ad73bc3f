package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(baseURL string) *client {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		log:     newTestLogger(),
	}
}

func TestHealth(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
			assert.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		assert.NoError(t, newTestClient(srv.URL).Health(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		err := newTestClient(srv.URL).Health(context.Background())
		assert.True(t, IsNetwork(err))
	})

	t.Run("degraded backend", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		err := newTestClient(srv.URL).Health(context.Background())

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.True(t, httpErr.IsServer())
	})
}

func TestProcessCommand(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/openai/process-command", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"command":"look up statute 14:67","action":"statute","parameters":{"statute":"14:67"}}`))
		}))
		defer srv.Close()

		interp, err := newTestClient(srv.URL).ProcessCommand(context.Background(), "look up statute 14:67")
		require.NoError(t, err)
		assert.Equal(t, "statute", interp.Action)
		assert.Equal(t, "14:67", interp.Parameters["statute"])
	})

	t.Run("malformed body is a parse error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true,`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).ProcessCommand(context.Background(), "anything")
		assert.True(t, IsParse(err))
	})

	t.Run("envelope failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"error":"could not interpret command"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).ProcessCommand(context.Background(), "anything")

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "could not interpret command", httpErr.Message)
	})
}

func TestLookup(t *testing.T) {
	t.Run("unwraps envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/openai/legal", r.URL.Path)
			_, _ = w.Write([]byte(`{"success":true,"result":"RS 14:67. Theft."}`))
		}))
		defer srv.Close()

		result, err := newTestClient(srv.URL).Legal(context.Background(), "14:67")
		require.NoError(t, err)
		assert.Equal(t, "RS 14:67. Theft.", result)
	})

	t.Run("rate limit surfaces status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"slow down"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).General(context.Background(), "anything")

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.True(t, httpErr.IsRateLimited())
		assert.Equal(t, "slow down", httpErr.Message)
	})
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/tts", r.URL.Path)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("X-Cache", "HIT")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	audio, cached, err := newTestClient(srv.URL).Synthesize(context.Background(), "hello", "alloy")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, []byte("mp3-bytes"), audio)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t,
		"No internet connection. Only offline commands are available.",
		UserMessage(&NetworkError{Op: "general"}))
	assert.Equal(t,
		"The assistant service took too long to respond. Please try again.",
		UserMessage(&TimeoutError{Op: "general"}))
	assert.Equal(t,
		"Not authorized to use the assistant service.",
		UserMessage(&HTTPError{Op: "general", StatusCode: http.StatusUnauthorized}))
	assert.Equal(t,
		"The requested information was not found.",
		UserMessage(&HTTPError{Op: "legal", StatusCode: http.StatusNotFound}))
	assert.Equal(t,
		"Failed to process the command.",
		UserMessage(io.EOF))
}
