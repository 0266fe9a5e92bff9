package anilist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/util"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestExecuteReturnsData(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req graphQLRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "query { x }", req.Query)
		assert.Equal(t, float64(7), req.Variables["id"])

		_, _ = w.Write([]byte(`{"data":{"x":1}}`))
	})

	client := NewClient(server.URL, zap.NewNop())
	data, err := client.Execute(context.Background(), "query { x }", map[string]any{"id": 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(data))
}

func TestExecuteNon2xxIsTransportError(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.Execute(context.Background(), "query { x }", nil)
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))

	var remote *errors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)
	assert.Equal(t, "boom", remote.Body)
}

func TestExecuteErrorsArrayIsApplicationError(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"Not Found.","status":404}]}`))
	})

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.Execute(context.Background(), "query { x }", nil)
	require.Error(t, err)
	assert.True(t, errors.IsApplication(err))
	assert.False(t, errors.IsTransport(err))
	assert.Contains(t, err.Error(), "Not Found.")

	var remote *errors.RemoteError
	require.ErrorAs(t, err, &remote)
	require.Len(t, remote.Errors, 1)
	assert.Equal(t, 404, remote.Errors[0].Status)
}

func TestExecuteUndecodableBodyIsTransportError(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.Execute(context.Background(), "query { x }", nil)
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
}

func TestExecuteNetworkFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, zap.NewNop())
	_, err := client.Execute(context.Background(), "query { x }", nil)
	require.Error(t, err)

	var remote *errors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, errors.RemoteTransport, remote.Kind)
	assert.Equal(t, 0, remote.Status)
}

func TestExecuteNeverRetries(t *testing.T) {
	server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.Execute(context.Background(), "query { x }", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExecuteFailsFastWhenCircuitOpen(t *testing.T) {
	server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	breaker := util.NewCircuitBreaker(2, time.Minute, zap.NewNop())
	client := NewClient(server.URL, zap.NewNop(), WithCircuitBreaker(breaker))

	for i := 0; i < 2; i++ {
		_, err := client.Execute(context.Background(), "query { x }", nil)
		require.Error(t, err)
	}
	require.Equal(t, int32(2), calls.Load())
	assert.Equal(t, util.CircuitStateOpen, breaker.State())

	_, err := client.Execute(context.Background(), "query { x }", nil)
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.Equal(t, int32(2), calls.Load())

	var remote *errors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusServiceUnavailable, remote.Status)
}

func TestExecuteRespectsCancelledContext(t *testing.T) {
	server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	client := NewClient(server.URL, zap.NewNop(), WithRateLimit(1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Execute(ctx, "query { x }", nil)
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.Equal(t, int32(0), calls.Load())
}
