package handlers

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/floqer/directory/internal/directory/slug"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap handles GET /sitemap.xml: base entries plus one URL per company,
// bounded by the configured limit. A backend failure degrades to the
// minimal sitemap.
func (h *DirectoryHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format("2006-01-02")
	urls := []sitemapURL{
		{Loc: h.siteURL, LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
		{Loc: h.siteURL + "/company", LastMod: today, ChangeFreq: "daily", Priority: "0.9"},
	}

	for _, row := range h.svc.SitemapRows(r.Context(), h.sitemapLimit) {
		lastMod := today
		if row.LastUpdated != "" {
			if t, err := time.Parse("2006-01-02", row.LastUpdated); err == nil {
				lastMod = t.Format("2006-01-02")
			}
		}
		urls = append(urls, sitemapURL{
			Loc:        h.siteURL + "/company/" + slug.Generate(row.Name),
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}
