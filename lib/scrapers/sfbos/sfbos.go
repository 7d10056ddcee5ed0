// Package sfbos scrapes meeting agendas and minutes of the San Francisco
// Board of Supervisors from https://sfbos.org/meetings.
package sfbos

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"context"

	"civicrecords-backend/lib/scrape"
	"civicrecords-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/sfbos")

const (
	DefaultBaseURL = "https://sfbos.org"
	meetingsPath   = "/meetings/full-board-meetings"
)

type Options struct {
	// BaseURL overrides the production site, used by tests.
	BaseURL string
	// Timeout bounds every request, defaults to 30s. A hung fetch
	// surfaces as a failed candidate, never as a hung batch.
	Timeout time.Duration
}

type Adapter struct {
	baseURL *url.URL
	http    *resty.Client
	now     func() time.Time
}

func New(opts Options) (*Adapter, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseURL.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/sfbos/http")

	return &Adapter{
		baseURL: baseURL,
		http:    client,
		now:     time.Now,
	}, nil
}

func (a *Adapter) Source() string {
	return "sfbos"
}

var pdfHrefRegex = regexp.MustCompile(`(?i)\.pdf$`)

// Discover lists every meeting pdf currently linked from the full-board
// meetings page, most recent first (the site lists newest meetings at the
// top).
func (a *Adapter) Discover(ctx context.Context) ([]scrape.Candidate, error) {
	ctx, span := tracer.Start(ctx, "Discover")
	defer span.End()

	res, err := a.http.R().
		SetContext(ctx).
		Get(meetingsPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch meetings page")
		return nil, err
	}
	if res.StatusCode() != 200 {
		err := fmt.Errorf("meetings page returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse meetings page")
		return nil, err
	}

	candidates := a.parseListing(doc)
	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	return candidates, nil
}

func (a *Adapter) parseListing(doc *goquery.Document) []scrape.Candidate {
	var out []scrape.Candidate
	seen := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		if !pdfHrefRegex.MatchString(href) {
			return
		}

		abs := a.absoluteURL(href)
		if abs == "" {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}

		text := strings.TrimSpace(link.Text())
		date, ok := extractDate(abs, text, link.Parent().Text())
		if !ok {
			// undated documents still get a stable-enough identity
			// within the day they were discovered
			date = a.now()
		}

		out = append(out, scrape.Candidate{
			URL:  abs,
			Kind: inferKind(abs, text),
			Date: date,
		})
	})

	return out
}

func (a *Adapter) absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		ref := *a.baseURL
		ref.Path = href
		return ref.String()
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}

func inferKind(url, linkText string) scrape.Kind {
	lowerText := strings.ToLower(linkText)
	lowerURL := strings.ToLower(url)

	switch {
	case strings.Contains(lowerText, "agenda") || strings.Contains(lowerURL, "agenda"):
		return scrape.KindAgenda
	case strings.Contains(lowerText, "minute") || strings.Contains(lowerURL, "minute"):
		return scrape.KindMinutes
	default:
		return scrape.KindOther
	}
}

// Fetch retrieves the raw pdf bytes for one candidate. Network failures and
// server errors are transient, client errors like 404 are permanent.
func (a *Adapter) Fetch(ctx context.Context, c scrape.Candidate) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", c.URL))

	res, err := a.http.R().
		SetContext(ctx).
		Get(c.URL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, &scrape.FetchError{URL: c.URL, Transient: true, Err: err}
	}

	status := res.StatusCode()
	switch {
	case status == 200:
		return res.Body(), nil
	case status >= 500:
		err := fmt.Errorf("status %d", status)
		span.RecordError(err)
		span.SetStatus(codes.Error, "server error")
		return nil, &scrape.FetchError{URL: c.URL, Transient: true, Err: err}
	default:
		err := fmt.Errorf("status %d", status)
		span.RecordError(err)
		span.SetStatus(codes.Error, "client error")
		return nil, &scrape.FetchError{URL: c.URL, Transient: false, Err: err}
	}
}
