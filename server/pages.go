package server

import (
	"net/http"

	"go.uber.org/zap"

	"portfolio/demo"
)

// form field names shared with the templates
const (
	fieldRadius     = "radius"
	fieldBase       = "base"
	fieldHeight     = "height"
	fieldInput      = "inputString"
	fieldListItem   = "list_item"
	fieldAction     = "action"
	fieldData       = "data_input"
	fieldInfixInput = "infix_input"
)

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.staticPage("index"))
	mux.HandleFunc("GET /profile", s.staticPage("profile"))
	mux.HandleFunc("GET /works", s.staticPage("works"))
	mux.HandleFunc("GET /contact", s.staticPage("contact"))

	formPages := map[string]http.HandlerFunc{
		"/areaofcircle":     s.handleCircle,
		"/areaoftriangle":   s.handleTriangle,
		"/touppercase":      s.handleUppercase,
		"/lists":            s.handleLists,
		"/stacks":           s.handleConvert,
		"/infix_to_postfix": s.handleConvert,
	}
	for pattern, handler := range formPages {
		mux.HandleFunc("GET "+pattern, handler)
		mux.HandleFunc("POST "+pattern, handler)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}

func (s *Server) staticPage(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, page, nil)
	}
}

// parsePost reports whether the request is a form submission that parsed.
// GET requests render the empty form.
func (s *Server) parsePost(w http.ResponseWriter, r *http.Request) (submitted bool, ok bool) {
	if r.Method != http.MethodPost {
		return false, true
	}
	err := r.ParseForm()
	if err != nil {
		s.logger.InfoWithContext(r.Context(), "rejected malformed form", zap.Error(err))
		http.Error(w, "malformed form", http.StatusBadRequest)
		return true, false
	}
	return true, true
}

// formNumber returns the submitted value of a numeric field. Only a field
// missing from the form falls back to zero; a blank one stays blank.
func formNumber(r *http.Request, field string) string {
	if !r.PostForm.Has(field) {
		return demo.MissingNumber
	}
	return r.PostForm.Get(field)
}

func (s *Server) handleCircle(w http.ResponseWriter, r *http.Request) {
	submitted, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	var result any
	if submitted {
		result = demo.CircleArea(formNumber(r, fieldRadius))
	}
	s.render(w, r, "areaofcircle", result)
}

func (s *Server) handleTriangle(w http.ResponseWriter, r *http.Request) {
	submitted, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	var result any
	if submitted {
		result = demo.TriangleArea(formNumber(r, fieldBase), formNumber(r, fieldHeight))
	}
	s.render(w, r, "areaoftriangle", result)
}

func (s *Server) handleUppercase(w http.ResponseWriter, r *http.Request) {
	submitted, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	var result any
	if submitted {
		result = demo.Uppercase(r.PostForm.Get(fieldInput))
	}
	s.render(w, r, "touppercase", result)
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	submitted, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	result := demo.ListResult{Items: []string{}}
	if submitted {
		action := demo.Action(r.PostForm.Get(fieldAction))
		result = demo.ApplyListAction(r.PostForm[fieldListItem], action, r.PostForm.Get(fieldData))
		s.metrics.observeListAction(action)
	}
	s.render(w, r, "lists", result)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	submitted, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	var result demo.ConvertResult
	if submitted {
		result = demo.ConvertExpression(r.PostForm.Get(fieldInfixInput))
		s.metrics.observeConversion(result)
	}
	s.render(w, r, "converter", result)
}
