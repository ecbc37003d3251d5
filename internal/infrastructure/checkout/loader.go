// Package checkout provides the client-side adapters of a payment session:
// the checkout library loader, the HTTP order client and a console widget.
package checkout

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	appcheckout "quickpay/internal/application/checkout"
	"quickpay/internal/shared/logger"
)

const (
	// DefaultScriptURL is Razorpay's hosted checkout library.
	DefaultScriptURL = "https://checkout.razorpay.com/v1/checkout.js"

	defaultTimeout = 15 * time.Second

	// Maximum script size read before the response is considered valid (4MB)
	maxScriptSize = 4 << 20
)

// WidgetFactory builds widgets once the checkout library is available.
type WidgetFactory func(opts appcheckout.WidgetOptions) (appcheckout.Widget, error)

// ScriptLoader fetches the checkout library at most once per process.
// Concurrent callers share a single in-flight fetch.
type ScriptLoader struct {
	scriptURL  string
	httpClient *http.Client
	factory    WidgetFactory
	ready      atomic.Bool
	fetchGroup singleflight.Group
	logger     logger.Interface
}

// NewScriptLoader creates a loader for scriptURL. A zero timeout uses the default.
func NewScriptLoader(scriptURL string, timeout time.Duration, factory WidgetFactory, log logger.Interface) *ScriptLoader {
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ScriptLoader{
		scriptURL: scriptURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		factory: factory,
		logger:  log,
	}
}

// Ensure ScriptLoader implements Loader
var _ appcheckout.Loader = (*ScriptLoader)(nil)

// EnsureReady returns true once the library has been fetched. Failures are
// not remembered, so a later call retries the fetch.
// The shared fetch is detached from the callers' contexts and bounded by the
// client timeout; a cancelled caller stops waiting without failing the others.
func (l *ScriptLoader) EnsureReady(ctx context.Context) bool {
	if l.ready.Load() {
		return true
	}

	fetchCtx := context.WithoutCancel(ctx)
	result := l.fetchGroup.DoChan("script", func() (any, error) {
		if l.ready.Load() {
			return nil, nil
		}
		if err := l.fetch(fetchCtx); err != nil {
			return nil, err
		}
		l.ready.Store(true)
		return nil, nil
	})

	select {
	case res := <-result:
		if res.Err != nil {
			l.logger.Warnw("failed to load checkout library",
				"error", res.Err,
				"url", l.scriptURL,
				"shared", res.Shared,
			)
			return false
		}
		return true
	case <-ctx.Done():
		l.logger.Warnw("stopped waiting for checkout library",
			"error", ctx.Err(),
			"url", l.scriptURL,
		)
		return false
	}
}

func (l *ScriptLoader) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.scriptURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	n, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxScriptSize))
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("empty script response")
	}

	l.logger.Debugw("checkout library loaded", "url", l.scriptURL, "bytes", n)
	return nil
}

// NewWidget returns appcheckout.ErrCheckoutNotReady until EnsureReady has succeeded.
func (l *ScriptLoader) NewWidget(opts appcheckout.WidgetOptions) (appcheckout.Widget, error) {
	if !l.ready.Load() {
		return nil, appcheckout.ErrCheckoutNotReady
	}
	return l.factory(opts)
}
