package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"

	"github.com/exhibitor-tools/lineup-portal/internal/logging"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// pages holds the parsed page templates, each combined with the layout.
var pages = parsePages("login.html", "dashboard.html")

func parsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.ParseFS(templateFiles,
			"templates/layout.html", "templates/"+name))
	}
	return out
}

// mdRenderer converts announcement markdown to HTML. Raw HTML in the input
// is escaped (WithUnsafe is NOT set), so a compromised announcement file
// cannot inject script.
var mdRenderer = goldmark.New()

// render executes a page template into a buffer first so a template error
// becomes a 500 rather than a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, status int, data map[string]any) {
	tmpl, ok := pages[page]
	if !ok {
		log.Panicf("render: unknown page %q", page)
	}
	if data == nil {
		data = map[string]any{}
	}
	data["CSRFField"] = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.FromContext(r.Context()).Error("template render failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// announcementHTML renders the configured announcement file as HTML, or ""
// when none is configured or it cannot be read. The file is re-read per
// login-page render so the operator can update it without a restart.
func (s *Server) announcementHTML(r *http.Request) template.HTML {
	path := s.cfg.Web.AnnouncementFile
	if path == "" {
		return ""
	}
	md, err := os.ReadFile(path)
	if err != nil {
		logging.FromContext(r.Context()).Warn("announcement file unreadable", "path", path, "error", err)
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert(md, &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(string(md)))
	}
	return template.HTML(buf.String())
}

// staticHandler serves the embedded static assets.
func (s *Server) staticHandler() http.Handler {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
}
