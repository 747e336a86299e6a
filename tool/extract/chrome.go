package extract

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeFetcher renders pages in a headless Chrome before reading the DOM.
// It needs a Chrome or Chromium binary on PATH.
type ChromeFetcher struct {
	Timeout   time.Duration
	UserAgent string
}

// NewChromeFetcher creates a ChromeFetcher with a 15s timeout.
func NewChromeFetcher() *ChromeFetcher {
	return &ChromeFetcher{Timeout: 15 * time.Second, UserAgent: "Mozilla/5.0 (compatible; edumesh/1.0)"}
}

// Fetch implements Fetcher.
func (f *ChromeFetcher) Fetch(ctx context.Context, link string) (string, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(f.UserAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(link),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

var _ Fetcher = (*ChromeFetcher)(nil)
