package cms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 5 << 20

// genericBodyLimit caps text taken from a generic content container.
const genericBodyLimit = 800

var (
	richTextClasses = []string{
		"metafield-rich_text_field", "product__description", "rst-content",
		"collection-hero__description", "collection-description", "rte",
		"feature-row__text", "rich-text__text", "text-column__text", "custom-content",
	}
	accordionClasses  = []string{"accordion__content", "summary__content", "ingredient-details"}
	genericContainers = []func(*html.Node) bool{
		hasAnyClass([]string{"rte"}),
		isAtom(atom.Article),
		hasAnyClass([]string{"article-content"}),
		hasAnyClass([]string{"page-content"}),
		isAtom(atom.Main),
	}

	blankLines = regexp.MustCompile(`\n\s+\n`)
)

// PageImporter turns storefront pages into content items for Import.
type PageImporter struct {
	client *http.Client
	logger *zap.Logger
}

func NewPageImporter(client *http.Client, logger *zap.Logger) *PageImporter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageImporter{client: client, logger: logger.Named("cms.import")}
}

// FetchAll fetches every URL. Pages that fail are logged and skipped; the error
// lists them.
func (pi *PageImporter) FetchAll(ctx context.Context, cat Category, urls []string) ([]ContentItem, error) {
	var (
		items  []ContentItem
		failed []string
	)
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		it, err := pi.Fetch(ctx, cat, u)
		if err != nil {
			pi.logger.Warn("page import failed", zap.String("url", u), zap.Error(err))
			failed = append(failed, u)
			continue
		}
		items = append(items, it)
	}
	if len(failed) > 0 {
		return items, fmt.Errorf("failed to import %d page(s): %s", len(failed), strings.Join(failed, ", "))
	}
	return items, nil
}

func (pi *PageImporter) Fetch(ctx context.Context, cat Category, pageURL string) (ContentItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ContentItem{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := pi.client.Do(req)
	if err != nil {
		return ContentItem{}, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ContentItem{}, fmt.Errorf("page returned status %d", resp.StatusCode)
	}
	return ParsePage(io.LimitReader(resp.Body, maxPageBytes), pageURL, cat)
}

// ParsePage extracts title, description, image and body text from an HTML page.
// The text lands in zh_hant for Chinese URLs (/zh/, /zh-hant/, /tc/) and en otherwise.
// The item key is the last path segment of the URL.
func ParsePage(r io.Reader, pageURL string, cat Category) (ContentItem, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return ContentItem{}, fmt.Errorf("failed to parse page: %w", err)
	}

	title := firstNonEmpty(textOf(find(doc, isAtom(atom.Title))), metaContent(doc, "property", "og:title"))
	description := firstNonEmpty(metaContent(doc, "name", "description"), metaContent(doc, "property", "og:description"))
	image := firstNonEmpty(metaContent(doc, "property", "og:image"), metaContent(doc, "property", "og:image:secure_url"))

	body := joinTexts(findAll(doc, hasAnyClass(richTextClasses)), 5, "\n\n---\n\n")
	if body == "" {
		body = joinTexts(findAll(doc, hasAnyClass(accordionClasses)), 0, "\n\n")
	}
	if body == "" {
		for _, match := range genericContainers {
			if n := find(doc, match); n != nil {
				body = truncateRunes(cleanText(n), genericBodyLimit)
				if body != "" {
					break
				}
			}
		}
	}
	if body == "" {
		body = description
	}

	it := ContentItem{
		ID:       uuid.NewString(),
		Key:      pageHandle(pageURL),
		Category: cat,
		Images:   []string{},
	}
	if image != "" {
		it.Images = []string{image}
	}
	if isChineseURL(pageURL) {
		it.Title.ZhHant = title
		it.Description.ZhHant = body
	} else {
		it.Title.EN = title
		it.Description.EN = body
	}
	return it, nil
}

func pageHandle(pageURL string) string {
	path := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		path = u.Path
	}
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return fmt.Sprintf("import_%d", time.Now().UnixMilli())
	}
	return path
}

func isChineseURL(u string) bool {
	return strings.Contains(u, "/zh/") || strings.Contains(u, "/zh-hant/") || strings.Contains(u, "/tc/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit]))
}

func isAtom(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

func hasAnyClass(classes []string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, c := range strings.Fields(attr(n, "class")) {
			for _, want := range classes {
				if c == want {
					return true
				}
			}
		}
		return false
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func metaContent(doc *html.Node, key, value string) string {
	n := find(doc, func(n *html.Node) bool {
		return isAtom(atom.Meta)(n) && attr(n, key) == value
	})
	if n == nil {
		return ""
	}
	return attr(n, "content")
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns matching nodes in document order without descending into matches.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	if match(n) {
		return []*html.Node{n}
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, match)...)
	}
	return out
}

func joinTexts(nodes []*html.Node, minLen int, sep string) string {
	var parts []string
	for _, n := range nodes {
		t := cleanText(n)
		if t != "" && len([]rune(t)) > minLen {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	return cleanText(n)
}

// cleanText flattens a subtree to text: <br> becomes a newline, a closing </p> a
// blank line, and scripts and styles are dropped.
func cleanText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			return
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteString("\n")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			b.WriteString("\n\n")
		}
	}
	walk(n)
	return strings.TrimSpace(blankLines.ReplaceAllString(b.String(), "\n\n"))
}
