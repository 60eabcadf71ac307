// Package adapter holds the per-domain fetch/parse implementations and
// the registry that routes a registrable domain to one of them.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// TransportConfig controls collector behavior shared by every adapter.
type TransportConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// Transport executes single HTTP GETs through a Colly collector and
// classifies failures into fetch error kinds.
type Transport struct {
	cfg           TransportConfig
	baseCollector *colly.Collector
}

// NewTransport builds the shared fetch transport.
func NewTransport(cfg TransportConfig) *Transport {
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	c.IgnoreRobotsTxt = false
	return &Transport{cfg: cfg, baseCollector: c}
}

// Fetch performs one GET of the URL. Non-2xx statuses and network
// failures come back as *corpus.FetchError so the retry policy can
// distinguish transient from permanent.
func (t *Transport) Fetch(ctx context.Context, rawURL string) (corpus.FetchResult, error) {
	collector := t.baseCollector.Clone()
	if t.cfg.UserAgent != "" {
		collector.UserAgent = t.cfg.UserAgent
	}
	timeout := t.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	var (
		result   corpus.FetchResult
		status   int
		fetchErr error
	)
	start := time.Now()

	collector.OnResponse(func(r *colly.Response) {
		result = corpus.FetchResult{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
			Elapsed:    time.Since(start),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return corpus.FetchResult{}, corpus.NewFetchError(corpus.FetchErrTimeout, rawURL, ctx.Err())
	case visitErr := <-done:
		if fetchErr != nil {
			return corpus.FetchResult{}, classify(rawURL, status, fetchErr)
		}
		if visitErr != nil {
			return corpus.FetchResult{}, classify(rawURL, status, visitErr)
		}
	}

	if result.StatusCode == 0 {
		return corpus.FetchResult{}, corpus.NewFetchError(corpus.FetchErrConnection, rawURL, fmt.Errorf("no response received"))
	}
	return result, nil
}

// classify maps an HTTP status or transport error to a fetch error kind.
func classify(url string, status int, err error) *corpus.FetchError {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return corpus.NewFetchError(corpus.FetchErrNotFound, url, err)
	case status == http.StatusTooManyRequests:
		return corpus.NewFetchError(corpus.FetchErrThrottled, url, err)
	case status >= 400 && status < 500:
		return corpus.NewFetchError(corpus.FetchErrBlocked, url, err)
	case status >= 500:
		return corpus.NewFetchError(corpus.FetchErrServer, url, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return corpus.NewFetchError(corpus.FetchErrTimeout, url, err)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return corpus.NewFetchError(corpus.FetchErrTimeout, url, err)
	}
	if strings.Contains(err.Error(), "Client.Timeout") {
		return corpus.NewFetchError(corpus.FetchErrTimeout, url, err)
	}
	return corpus.NewFetchError(corpus.FetchErrConnection, url, err)
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
