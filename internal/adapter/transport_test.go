package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

func newTestServer(t *testing.T, routes map[string]func(http.ResponseWriter, *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc(path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTransportFetchSuccess(t *testing.T) {
	srv := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/post": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>hello</body></html>"))
		},
	})

	tr := NewTransport(TransportConfig{UserAgent: "stylecorpus-test", Timeout: 5 * time.Second})
	result, err := tr.Fetch(context.Background(), srv.URL+"/post")

	require.NoError(t, err)
	assert.Equal(t, 200, result.StatusCode)
	assert.Contains(t, string(result.Body), "hello")
	assert.Greater(t, result.Elapsed, time.Duration(0))
}

func TestTransportClassifiesStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		kind   corpus.FetchErrorKind
	}{
		{http.StatusNotFound, corpus.FetchErrNotFound},
		{http.StatusGone, corpus.FetchErrNotFound},
		{http.StatusTooManyRequests, corpus.FetchErrThrottled},
		{http.StatusForbidden, corpus.FetchErrBlocked},
		{http.StatusInternalServerError, corpus.FetchErrServer},
		{http.StatusBadGateway, corpus.FetchErrServer},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			srv := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
				"/x": func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				},
			})
			tr := NewTransport(TransportConfig{Timeout: 5 * time.Second})
			_, err := tr.Fetch(context.Background(), srv.URL+"/x")

			var fetchErr *corpus.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.kind, fetchErr.Kind)
		})
	}
}

func TestTransportConnectionRefused(t *testing.T) {
	tr := NewTransport(TransportConfig{Timeout: 2 * time.Second})
	_, err := tr.Fetch(context.Background(), "http://127.0.0.1:1/nothing")

	var fetchErr *corpus.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Transient())
}

func TestTransportContextCancel(t *testing.T) {
	srv := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/slow": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(2 * time.Second)
		},
	})
	tr := NewTransport(TransportConfig{Timeout: 10 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := tr.Fetch(ctx, srv.URL+"/slow")

	var fetchErr *corpus.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, corpus.FetchErrTimeout, fetchErr.Kind)
}

func TestClassifyFallsBackToConnection(t *testing.T) {
	err := classify("https://x.com", 0, errors.New("connection reset by peer"))
	assert.Equal(t, corpus.FetchErrConnection, err.Kind)
	assert.True(t, err.Transient())
}
