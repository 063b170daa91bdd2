package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	tagContainerSelector = "div.tagcloud a"
	pricingItemSelector  = "div.erphpdown-price li"
	descriptionSelector  = "div.entry-content"
	previewLabel         = "查看预览"
	nonMemberLabel       = "非会员"
)

// Metadata label prefixes as they appear on the detail page.
const (
	labelCategory   = "分类"
	labelPopularity = "人气"
	labelPublished  = "发布时间"
	labelUpdated    = "最近更新"
	labelContent    = "课程信息"
	labelDimensions = "视频尺寸"
	labelFileSize   = "视频大小"
	labelDuration   = "课程时长"
	labelLanguage   = "视频语言"
	labelSubtitles  = "字幕语言"
)

var (
	coinPricePattern  = regexp.MustCompile(`(\d+)\s*金币`)
	popularityPattern = regexp.MustCompile(`\((\d+)\)\s*$`)

	tocStrictPattern  = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*\blwptoc\b[^"]*"[^>]*>.*?</div>\s*</div>\s*</div>`)
	tocPartialPattern = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*lwptoc[^"]*"[^>]*>.*?</div>`)

	legalNoticeExact = "本站所有资源版权均属于原作者所有，这里所提供资源均只能用于参考学习用，请勿直接商用。若由于商用引起版权纠纷，一切责任均由使用者承担。"
	legalNoticeLoose = regexp.MustCompile(`本站所有资源[^<]{0,200}?使用者承担。?`)
)

// Extraction holds everything pulled from one detail page. Every field is
// optional; empty means the page did not carry it.
type Extraction struct {
	Tags            []string
	Category        string
	Popularity      string
	PublishDate     string
	LastUpdate      string
	ContentInfo     string
	VideoDimensions string
	FileSize        string
	Duration        string
	Language        string
	Subtitles       string
	CoinPrice       string
	PreviewURL      string
	CoverImageURL   string
	Description     string
}

// Extract pulls tags, metadata, pricing, preview, cover and description from
// a parsed detail page.
func Extract(doc *goquery.Document) *Extraction {
	e := &Extraction{}
	e.Tags = extractTags(doc)
	extractMetadata(doc, e)
	e.CoinPrice = extractCoinPrice(doc)
	e.PreviewURL = extractPreviewURL(doc)
	e.CoverImageURL = extractCoverURL(doc)
	e.Description = extractDescription(doc)
	return e
}

func extractTags(doc *goquery.Document) []string {
	var tags []string
	doc.Find(tagContainerSelector).Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		if name != "" {
			tags = append(tags, name)
		}
	})
	return tags
}

// extractMetadata walks all list items and matches them against the known
// label prefixes. Unknown items are ignored.
func extractMetadata(doc *goquery.Document, e *Extraction) {
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(li.Text())
		switch {
		case strings.HasPrefix(text, labelCategory):
			e.Category = labelValue(text, labelCategory)
		case strings.HasPrefix(text, labelPopularity):
			e.Popularity = popularityValue(labelValue(text, labelPopularity))
		case strings.HasPrefix(text, labelPublished):
			e.PublishDate = labelValue(text, labelPublished)
		case strings.HasPrefix(text, labelUpdated):
			e.LastUpdate = labelValue(text, labelUpdated)
		case strings.HasPrefix(text, labelContent):
			e.ContentInfo = labelValue(text, labelContent)
		case strings.HasPrefix(text, labelDimensions):
			e.VideoDimensions = labelValue(text, labelDimensions)
		case strings.HasPrefix(text, labelFileSize):
			e.FileSize = labelValue(text, labelFileSize)
		case strings.HasPrefix(text, labelDuration):
			e.Duration = labelValue(text, labelDuration)
		case strings.HasPrefix(text, labelLanguage):
			e.Language = labelValue(text, labelLanguage)
		case strings.HasPrefix(text, labelSubtitles):
			e.Subtitles = labelValue(text, labelSubtitles)
		}
	})
}

// labelValue strips the label prefix and any following colon from a metadata
// item.
func labelValue(text, label string) string {
	value := strings.TrimPrefix(text, label)
	value = strings.TrimLeft(value, ":： ")
	return strings.TrimSpace(value)
}

// popularityValue prefers the view count inside trailing parentheses, falling
// back to the raw remainder.
func popularityValue(raw string) string {
	if m := popularityPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

func extractCoinPrice(doc *goquery.Document) string {
	price := ""
	doc.Find(pricingItemSelector).EachWithBreak(func(_ int, li *goquery.Selection) bool {
		text := li.Text()
		if !strings.Contains(text, nonMemberLabel) {
			return true
		}
		if m := coinPricePattern.FindStringSubmatch(text); m != nil {
			price = m[1]
			return false
		}
		return true
	})
	return price
}

func extractPreviewURL(doc *goquery.Document) string {
	previewURL := ""
	for _, selector := range []string{"div.entry-content a", "div.erphpdown a", "article a"} {
		doc.Find(selector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if !strings.Contains(a.Text(), previewLabel) {
				return true
			}
			if href, ok := a.Attr("href"); ok && href != "" {
				previewURL = href
				return false
			}
			return true
		})
		if previewURL != "" {
			break
		}
	}
	return previewURL
}

func extractCoverURL(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && content != "" {
		return content
	}
	if src, ok := doc.Find("img.wp-post-image").First().Attr("src"); ok && src != "" {
		return src
	}
	if src, ok := doc.Find("img.attachment-large").First().Attr("src"); ok && src != "" {
		return src
	}
	return ""
}

// extractDescription takes the article body HTML and strips the boilerplate
// legal notice and the table-of-contents widget.
func extractDescription(doc *goquery.Document) string {
	container := doc.Find(descriptionSelector).First()
	if container.Length() == 0 {
		container = doc.Find("article").First()
	}
	if container.Length() == 0 {
		return ""
	}

	html, err := container.Html()
	if err != nil {
		return ""
	}

	html = stripLegalNotice(html)
	html = stripTableOfContents(html)
	return strings.TrimSpace(html)
}

func stripLegalNotice(html string) string {
	if strings.Contains(html, legalNoticeExact) {
		return strings.ReplaceAll(html, legalNoticeExact, "")
	}
	return legalNoticeLoose.ReplaceAllString(html, "")
}

func stripTableOfContents(html string) string {
	if tocStrictPattern.MatchString(html) {
		return tocStrictPattern.ReplaceAllString(html, "")
	}
	return tocPartialPattern.ReplaceAllString(html, "")
}
