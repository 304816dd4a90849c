package practicepage

import (
	_ "embed"
	"net/http"
)

// HTML is a self-contained copy of the practice page for real-browser tests.
//
//go:embed practice.html
var HTML []byte

// Handler serves HTML at every path.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(HTML)
	})
}
