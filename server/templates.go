package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutTemplate = "templates/layout.html"

// page names double as template file names
var pages = []string{
	"index",
	"profile",
	"works",
	"contact",
	"areaofcircle",
	"areaoftriangle",
	"touppercase",
	"lists",
	"converter",
}

type view struct {
	Page string
	Data any
}

func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(templatesFS, layoutTemplate, fmt.Sprintf("templates/%v.html", page))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template of page '%v': %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}

// render executes into a buffer first so a failing template never leaves a
// half written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	tmpl, found := s.templates[page]
	if !found {
		s.logger.ErrorWithContext(r.Context(), "unknown page template", zap.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buffer bytes.Buffer
	err := tmpl.ExecuteTemplate(&buffer, "layout", view{Page: page, Data: data})
	if err != nil {
		s.logger.ErrorWithContext(r.Context(), "failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buffer.WriteTo(w)
	if err != nil {
		s.logger.ErrorWithContext(r.Context(), "failed to write page", zap.String("page", page), zap.Error(err))
	}
}
