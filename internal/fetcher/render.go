package fetcher

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer loads a page in a JavaScript-capable browser and returns the
// rendered HTML. Implementations own a browser process and must be closed.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
	Close()
}

type ChromeRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
}

// NewChromeRenderer starts a headless Chrome allocator shared by all
// renders. Each Render call opens a fresh tab.
func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.UserAgent(defaultUserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeRenderer{allocCtx: allocCtx, allocCancel: cancel, timeout: timeout}
}

func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	defer cancelTab()

	timeoutCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-timeoutCtx.Done():
		}
	}()

	var rendered string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return rendered, nil
}

func (r *ChromeRenderer) Close() {
	r.allocCancel()
}
