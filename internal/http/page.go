package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/robertarktes/movie-ticket-booking/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// renderPage executes the template before writing anything so a template
// failure still yields a clean 500.
func renderPage(w http.ResponseWriter, page domain.Page) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
	return nil
}
