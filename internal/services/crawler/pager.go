package crawler

import (
	"context"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// PageState classifies the outcome of fetching one listing page
type PageState int

const (
	// PageNonEmpty means the page yielded at least one resource stub
	PageNonEmpty PageState = iota
	// PageEmpty means the page fetched fine but yielded no stubs
	PageEmpty
	// PageNotFound means the site returned HTTP 404; the sequence is exhausted
	PageNotFound
	// PageNetworkError means the fetch failed; the sequence stops without error
	PageNetworkError
)

func (s PageState) String() string {
	switch s {
	case PageNonEmpty:
		return "non_empty"
	case PageEmpty:
		return "empty"
	case PageNotFound:
		return "not_found"
	case PageNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Page is one element of the listing page sequence
type Page struct {
	Number int
	URL    string
	State  PageState
	Stubs  []Stub
	Err    error
}

// FetchFunc fetches a listing page. A 404 is reported via the status code,
// not as an error.
type FetchFunc func(ctx context.Context, pageURL string) (*goquery.Document, int, error)

// ExtractFunc pulls resource stubs out of a fetched listing page
type ExtractFunc func(doc *goquery.Document, pageURL string) []Stub

// Pager is a lazy, restartable sequence of listing pages for one category.
// Termination rules:
//   - HTTP 404 ends the sequence (not an error)
//   - a network error ends the sequence (surfaced on the page, not raised)
//   - an empty page ends the sequence unless it is the first page
//   - an optional page cap ends the sequence
type Pager struct {
	baseURL  string
	fetch    FetchFunc
	extract  ExtractFunc
	limiter  *rate.Limiter
	maxPages int

	number int
	done   bool
}

// NewPager creates a page sequence rooted at the category listing URL.
// limiter paces fetches; maxPages of 0 means no cap.
func NewPager(baseURL string, fetch FetchFunc, extract ExtractFunc, limiter *rate.Limiter, maxPages int) *Pager {
	return &Pager{
		baseURL:  baseURL,
		fetch:    fetch,
		extract:  extract,
		limiter:  limiter,
		maxPages: maxPages,
	}
}

// PageURL builds the listing URL for page n: the category URL for page 1,
// "{url}/page/{n}/" beyond.
func (p *Pager) PageURL(n int) string {
	if n <= 1 {
		return p.baseURL
	}
	base := p.baseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/page/" + strconv.Itoa(n) + "/"
}

// Next advances the sequence and returns the next page, or nil once the
// sequence is exhausted.
func (p *Pager) Next(ctx context.Context) *Page {
	if p.done {
		return nil
	}
	if p.maxPages > 0 && p.number >= p.maxPages {
		p.done = true
		return nil
	}

	p.number++
	page := &Page{Number: p.number, URL: p.PageURL(p.number)}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			p.done = true
			page.State = PageNetworkError
			page.Err = err
			return page
		}
	}

	doc, status, err := p.fetch(ctx, page.URL)
	if err != nil {
		p.done = true
		page.State = PageNetworkError
		page.Err = err
		return page
	}
	if status == 404 {
		p.done = true
		page.State = PageNotFound
		return page
	}

	page.Stubs = p.extract(doc, page.URL)
	if len(page.Stubs) == 0 {
		page.State = PageEmpty
		// An empty first page does not end the sequence; later empty pages do.
		if page.Number > 1 {
			p.done = true
		}
		return page
	}

	page.State = PageNonEmpty
	return page
}

// Reset rewinds the sequence so it can be iterated again from page 1
func (p *Pager) Reset() {
	p.number = 0
	p.done = false
}
