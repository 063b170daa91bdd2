package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Listing page structure is fixed for the source site: entries live inside
// the content container, titled by their entry-title anchor.
const (
	listingContainerSelector = "div#content"
	stubLinkSelector         = "article h2.entry-title a[href]"
	categoryListingPath      = "/category/"
)

var bracketTagPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Stub is a resource reference extracted from a category listing page
type Stub struct {
	URL          string
	ChineseTitle string
	EnglishTitle string
	Tags         []string
}

// ExtractStubs pulls resource stubs from a listing page, skipping links that
// point back to category listings. Relative hrefs are resolved against the
// page URL.
func ExtractStubs(doc *goquery.Document, pageURL string) []Stub {
	base, _ := url.Parse(pageURL)

	var stubs []Stub
	doc.Find(listingContainerSelector).Find(stubLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.Contains(href, categoryListingPath) {
			return
		}
		if base != nil {
			if resolved, err := base.Parse(href); err == nil {
				href = resolved.String()
			}
		}

		title := strings.TrimSpace(sel.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(sel.Text())
		}

		stubs = append(stubs, ParseStub(href, title))
	})
	return stubs
}

// ParseStub builds a stub from a resolved link and its raw title. Bracket
// tags like "[udemy]" are case-folded, deduplicated and stripped; the
// remaining title splits on "|" into chinese/english parts.
func ParseStub(href, rawTitle string) Stub {
	tags, remainder := extractBracketTags(rawTitle)
	chinese, english := splitTitle(remainder)
	return Stub{
		URL:          href,
		ChineseTitle: chinese,
		EnglishTitle: english,
		Tags:         tags,
	}
}

func extractBracketTags(title string) ([]string, string) {
	var tags []string
	seen := make(map[string]bool)

	for _, m := range bracketTagPattern.FindAllStringSubmatch(title, -1) {
		tag := strings.ToLower(strings.TrimSpace(m[1]))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	remainder := bracketTagPattern.ReplaceAllString(title, "")
	return tags, strings.TrimSpace(remainder)
}

func splitTitle(title string) (chinese, english string) {
	parts := strings.SplitN(title, "|", 2)
	chinese = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		english = strings.TrimSpace(parts[1])
	}
	return chinese, english
}
