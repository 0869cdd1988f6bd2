package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// sitemapMaxURLs is the per-file cap from the sitemap protocol.
const sitemapMaxURLs = 50000

// ListingURLSource supplies pages of active listings for the sitemap build.
type ListingURLSource interface {
	ActiveListingSlugs(ctx context.Context) ([]string, error)
}

// SitemapService renders sitemap.xml and robots.txt from current inventory.
type SitemapService struct {
	baseURL string
	source  ListingURLSource
}

// NewSitemapService creates a SitemapService rooted at the given site URL.
func NewSitemapService(baseURL string, source ListingURLSource) *SitemapService {
	return &SitemapService{baseURL: strings.TrimSuffix(baseURL, "/"), source: source}
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// GenerateSitemap builds the sitemap XML: static pages first, then one URL
// per active listing, capped at the protocol limit.
func (s *SitemapService) GenerateSitemap(ctx context.Context) ([]byte, error) {
	today := time.Now().Format("2006-01-02")
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: s.baseURL + "/", LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
			{Loc: s.baseURL + "/search", LastMod: today, ChangeFreq: "hourly", Priority: "0.9"},
		},
	}

	slugs, err := s.source.ActiveListingSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap: fetch listing slugs: %w", err)
	}
	for _, slug := range slugs {
		if len(set.URLs) >= sitemapMaxURLs {
			break
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/listing/%s", s.baseURL, slug),
			ChangeFreq: "daily",
			Priority:   "0.7",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sitemap: marshal: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// GenerateRobots renders robots.txt pointing crawlers at the sitemap and
// away from the API and admin surfaces.
func (s *SitemapService) GenerateRobots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Allow: /\n\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", s.baseURL)
	return b.String()
}
