package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// clickFunction is called with the resolved element as this, which gives the
// same effect as a user click without needing the element to be visible
const clickFunction = `function() { this.click(); }`

type clickResult struct {
	url     string
	clicked bool
	ticks   int64
	elapsed time.Duration
	element string
	err     error
}

// pageDocument looks elements up in the page attached to the chromedp
// context it is called with - it satisfies the document interface
type pageDocument struct{}

func (pageDocument) findByID(ctx context.Context, id string) (element, error) {
	var nodes []*cdp.Node

	err := chromedp.Run(ctx, chromedp.Nodes(idSelector(id), &nodes, chromedp.ByQuery, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("failed to query id %q: %w", id, err)
	}

	if len(nodes) == 0 {
		return nil, nil
	}

	return &pageElement{node: nodes[0]}, nil
}

// cssStringEscaper escapes a value for use inside a double quoted CSS string
var cssStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\a `,
	"\r", `\d `,
	"\f", `\c `,
)

// idSelector returns a selector matching elements whose id attribute equals
// id exactly. Unlike "#"+id it works for ids that are not CSS identifiers,
// such as "a.b" or "1st-button".
func idSelector(id string) string {
	return `[id="` + cssStringEscaper.Replace(id) + `"]`
}

// pageElement is a DOM node of a live page - it satisfies the element interface
type pageElement struct {
	node *cdp.Node
}

func (e *pageElement) activate(ctx context.Context) error {
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve node: %w", err)
		}
		defer func() { _ = runtime.ReleaseObject(obj.ObjectID).Do(ctx) }()

		_, exp, err := runtime.CallFunctionOn(clickFunction).WithObjectID(obj.ObjectID).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to click node: %w", err)
		}
		if exp != nil {
			return fmt.Errorf("click threw: %w", exp)
		}

		return nil
	}))
}

func (e *pageElement) outerHTML(ctx context.Context) (string, error) {
	var html string

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		html, err = dom.GetOuterHTML().WithNodeID(e.node.NodeID).Do(ctx)
		return err
	}))

	return html, err
}

// newBrowser starts a Chrome instance and returns a context attached to its
// first tab, along with a function that shuts everything down
func newBrowser(ctx context.Context, headless bool, log logrus.FieldLogger) (context.Context, context.CancelFunc, error) {
	// setup browser options
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)

	// create context with ExecAllocator
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	// create browser context
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(log.Debugf),
		chromedp.WithErrorf(log.Debugf),
	)

	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// open browser with a blank page
	err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank"))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return browserCtx, cancel, nil
}

// clickAll loads every target in turn, each page load getting its own poller
func clickAll(ctx context.Context, cfg config, targets []*target, log logrus.FieldLogger) ([]clickResult, error) {
	browserCtx, cancel, err := newBrowser(ctx, cfg.headless, log)
	if err != nil {
		return nil, err
	}
	defer cancel()

	results := make([]clickResult, 0, len(targets))
	for _, t := range targets {
		result := clickOnLoad(browserCtx, cfg, t, log)
		results = append(results, result)

		// stop early on interrupt, but keep what was done so far
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}

	return results, nil
}

// clickOnLoad navigates to the target, waits for its content to load and
// polls for the configured element until it is clicked
func clickOnLoad(ctx context.Context, cfg config, t *target, log logrus.FieldLogger) clickResult {
	result := clickResult{url: t.url}
	pageLog := log.WithField("url", t.url)

	if cfg.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.timeout)
		defer cancelTimeout()
	}

	// navigate browser to url and wait for the body
	err := chromedp.Run(ctx,
		chromedp.Navigate(t.url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		result.err = fmt.Errorf("failed to load page: %w", err)
		pageLog.WithError(err).Error("Page load failed")
		return result
	}

	cfg.spinner.Start(fmt.Sprintf("Waiting for #%s on %s", cfg.id, t.url))

	start := time.Now()
	h := newPoller(pageDocument{}, cfg.id, cfg.interval, pageLog).start(ctx)
	err = h.Wait()

	result.elapsed = time.Since(start)
	result.ticks = h.Ticks()
	result.element = h.Element()
	result.clicked = h.State() == stateDone && err == nil
	result.err = err

	cfg.spinner.Stop(result.clicked)

	return result
}
