package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.UpstreamConfig {
	return config.UpstreamConfig{
		Timeout:             time.Second,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	}
}

func TestDoReturnsResponseForAnyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := New("test", testConfig())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/found", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	var body struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, resp.Decode(&body))
	assert.True(t, body.OK)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/missing", nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	client := New("flaky", testConfig(), WithMetrics(metrics.NewUpstreamMetrics(reg)))

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstream))
	assert.True(t, pkgerrors.Dump(err).BreakerOpen)
	assert.Equal(t, int32(2), hits.Load(), "open breaker must not reach the upstream")
}

func TestCallerDeadlineDoesNotTripBreaker(t *testing.T) {
	release := make(chan struct{})
	var slow atomic.Bool
	slow.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	defer close(release)

	reg := prometheus.NewRegistry()
	client := New("nhentai", testConfig(), WithMetrics(metrics.NewUpstreamMetrics(reg)))

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		_, err = client.Do(req)
		cancel()
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstream))
		assert.False(t, pkgerrors.Dump(err).BreakerOpen)
	}

	slow.Store(false)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err, "abandoned requests must not open the breaker")
	assert.True(t, resp.OK())
}

func TestCanceledRequestDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New("instagram", testConfig())
	for i := 0; i < 4; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		_, err = client.Do(req)
		require.ErrorIs(t, err, context.Canceled)
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	require.NoError(t, err)
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := New("catalog", testConfig())
	for i := 0; i < 5; i++ {
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
}

func TestTransportFailureIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New("gone", testConfig())
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstream))
	assert.NotEmpty(t, pkgerrors.Dump(err).TransportOp)
}

func TestStatusErrorCarriesStatus(t *testing.T) {
	err := StatusError("instagram", &Response{StatusCode: http.StatusForbidden})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
	assert.Equal(t, map[string]any{"status": http.StatusForbidden}, typed.Details())
}

func TestSnippetIsBounded(t *testing.T) {
	body := make([]byte, errorBodyLimit*2)
	for i := range body {
		body[i] = 'a'
	}
	assert.Len(t, (&Response{Body: body}).Snippet(), errorBodyLimit)
}
