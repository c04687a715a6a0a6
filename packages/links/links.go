// Package links
package links

import (
	"net/url"
	"strings"

	"feedguard/packages/domain"

	"github.com/PuerkitoBio/goquery"
)

// productPathMarkers identify product detail pages across common storefront
// platforms (Shopify uses /products/, WooCommerce and others /product/).
var productPathMarkers = []string{"/product/", "/products/"}

func isProductPath(path string) bool {
	// Trailing slash so "/products" (a listing page) also matches as a
	// prefix boundary.
	padded := path
	if !strings.HasSuffix(padded, "/") {
		padded += "/"
	}
	for _, marker := range productPathMarkers {
		if strings.Contains(padded, marker) {
			return true
		}
	}
	return false
}

// ExtractProductLinks walks every anchor in document order, resolves it
// against base, and keeps same-site product URLs until limit distinct links
// are collected. Malformed anchors are skipped silently; the result is
// deterministic for a given document.
func ExtractProductLinks(doc *goquery.Document, base string, target domain.Target, limit int) []string {
	if limit <= 0 {
		return nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return true
		}

		resolved, err := baseURL.Parse(href)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return true
		}
		resolved.Fragment = ""

		if !target.SameSite(resolved.Hostname()) || !isProductPath(strings.ToLower(resolved.Path)) {
			return true
		}

		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return true
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
		return len(out) < limit
	})

	return out
}
