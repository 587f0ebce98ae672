package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ScrapeDebLinks fetches an HTML directory listing at baseURL and returns the
// archive paths it links to, relative to baseURL where possible. Links outside
// the base URL are returned as absolute URLs. Duplicate hrefs are dropped,
// first-seen order preserved.
func (c *Client) ScrapeDebLinks(ctx context.Context, baseURL string) ([]string, error) {
	html, err := c.Bytes(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing at '%s': %w", baseURL, err)
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL '%s': %w", baseURL, err)
	}

	seen := make(map[string]struct{})
	var out []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		abs := base.ResolveReference(ref)
		abs.RawQuery = ""
		abs.Fragment = ""

		if !strings.HasSuffix(strings.ToLower(abs.Path), ".deb") {
			return
		}

		link := abs.String()
		// Prefer paths relative to the listing so downloads reuse the base URL.
		if rel, ok := strings.CutPrefix(link, base.String()); ok && rel != "" {
			link = rel
		}

		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		out = append(out, link)
	})

	c.logger.Debug("Scraped listing", "url", baseURL, "links", len(out))

	return out, nil
}
