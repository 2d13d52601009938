package invoice

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"bitefactory-backend/models"
)

// Artifact is the rendered invoice. Callers branch on IsPDF only to pick
// filename and content type; the delivery path is the same either way.
type Artifact struct {
	Buffer      []byte
	IsPDF       bool
	ContentType string
	Filename    string
}

type renderFunc func(ctx context.Context, attempt RenderAttempt, html string) ([]byte, error)

type Generator struct {
	log            *slog.Logger
	attempts       []RenderAttempt
	render         renderFunc
	attemptTimeout time.Duration
}

func NewGenerator(log *slog.Logger) *Generator {
	return &Generator{
		log:            log,
		attempts:       buildAttempts(),
		render:         renderChromium,
		attemptTimeout: 25 * time.Second,
	}
}

// Generate turns invoice data into a byte artifact. It never returns an
// error: when every render attempt fails, the self-styled markup itself is
// returned as an HTML artifact.
func (g *Generator) Generate(ctx context.Context, data models.InvoiceData) *Artifact {
	html, err := renderHTML(data)
	if err != nil {
		// Template execution over plain structs should not fail; treat it
		// as a bug, not a runtime condition.
		g.log.Error("invoice markup build failed", "order", data.OrderNumber, "error", err)
		html = "<html><body><h1>Invoice " + data.OrderNumber + "</h1></body></html>"
	}

	for _, attempt := range g.attempts {
		attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
		buf, err := g.render(attemptCtx, attempt, html)
		cancel()
		if err != nil {
			g.log.Warn("pdf render attempt failed",
				"order", data.OrderNumber, "attempt", attempt.Name, "error", err)
			continue
		}
		return &Artifact{
			Buffer:      buf,
			IsPDF:       true,
			ContentType: "application/pdf",
			Filename:    "invoice-" + data.OrderNumber + ".pdf",
		}
	}

	g.log.Warn("all pdf render attempts exhausted, falling back to html",
		"order", data.OrderNumber, "attempts", len(g.attempts))
	return &Artifact{
		Buffer:      []byte(html),
		IsPDF:       false,
		ContentType: "text/html",
		Filename:    "invoice-" + data.OrderNumber + ".html",
	}
}

// Subresource loads are pointless for the self-styled markup and only add
// latency, so they are blocked outright.
var blockedURLPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg",
	"*.css", "*.woff", "*.woff2", "*.ttf",
}

func renderChromium(ctx context.Context, attempt RenderAttempt, html string) ([]byte, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if attempt.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(attempt.ExecPath))
	}
	opts = append(opts, attempt.Flags...)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdf []byte
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetBlockedURLS(blockedURLPatterns),
		chromedp.Navigate(dataURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, errors.New("renderer produced an empty document")
	}
	return pdf, nil
}
