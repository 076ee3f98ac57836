package server

import (
	"log"
	"net/http"

	"github.com/umputun/aspirant/pkg/rss"
)

// bookmarksRSSHandler serves saved items as an RSS 2.0 feed
func (s *Server) bookmarksRSSHandler(w http.ResponseWriter, r *http.Request) {
	generator := rss.NewGenerator(s.config.GetBaseURL())

	doc, err := generator.GenerateRSS(s.bookmarks.List())
	if err != nil {
		log.Printf("[ERROR] failed to generate bookmarks RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(doc)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// opmlHandler exports the configured rss feeds grouped by category
func (s *Server) opmlHandler(w http.ResponseWriter, r *http.Request) {
	generator := rss.NewGenerator(s.config.GetBaseURL())

	doc, err := generator.GenerateOPML(s.config.Feeds())
	if err != nil {
		log.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="aspirant-feeds.opml"`)
	if _, err := w.Write([]byte(doc)); err != nil {
		log.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
