package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient returns a client pointed at srv with a tiny backoff.
func testClient(srv *httptest.Server) *Client {
	return New(Options{
		BaseURL:    srv.URL,
		MaxRetries: 3,
		RetryBase:  time.Millisecond,
	})
}

func TestRetryRecoversFromServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv)
	status, body, err := c.do(context.Background(), http.MethodGet, "/todos/", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "two 500s then a 200 must take exactly 3 attempts")
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"not found"}`))
	}))
	defer srv.Close()

	c := testClient(srv)
	status, body, err := c.do(context.Background(), http.MethodGet, "/todos/nope", "", nil)
	require.NoError(t, err, "a 4xx is a final outcome, not a transport error")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"detail":"not found"}`, string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetriesExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv)
	_, _, err := c.do(context.Background(), http.MethodGet, "/todos/", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls), "initial attempt plus 3 retries")
}

func TestNetworkFailureIsRetriedThenSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := testClient(srv)
	_, _, err := c.do(context.Background(), http.MethodGet, "/todos/", "", nil)
	require.Error(t, err)
}

func TestNoRetriesMakesSingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{
		BaseURL:    srv.URL,
		MaxRetries: NoRetries,
		RetryBase:  time.Millisecond,
	})
	_, _, err := c.do(context.Background(), http.MethodGet, "/todos/", "", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "NoRetries means exactly one attempt")
}

func TestRetryOptionDefaults(t *testing.T) {
	assert.Equal(t, DefaultMaxRetries, New(Options{}).maxRetries, "unset falls back to the default")
	assert.Equal(t, 0, New(Options{MaxRetries: NoRetries}).maxRetries)
}

func TestBackoffHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{
		BaseURL:    srv.URL,
		MaxRetries: 3,
		RetryBase:  time.Hour, // would block forever without cancellation
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := c.do(ctx, http.MethodGet, "/todos/", "", nil)
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancellation did not interrupt backoff")
	}
}
