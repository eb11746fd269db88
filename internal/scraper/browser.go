package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// browser fetches pages through headless Chrome so scripted tables are rendered
type browser struct {
	userAgent string
	timeout   time.Duration
	wait      time.Duration
}

func newBrowser(userAgent string, timeout, wait time.Duration) *browser {
	return &browser{userAgent: userAgent, timeout: timeout, wait: wait}
}

func (b *browser) fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(b.userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(b.wait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return html, nil
}
