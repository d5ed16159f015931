package handlers

import (
	"net/http"
	"path/filepath"
)

// Front-end tab directories under the static root. The cash-flow tab doubles
// as the landing page.
const (
	tabForecast = "previsao_fluxo_ai"
	tabFraud    = "fraudguard_ai"
	tabCredit   = "smartcredit_ai"
)

// StaticHandler serves the single-page front-end tabs.
type StaticHandler struct {
	root string
}

func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

// Register mounts the tab routes on mux. Each tab is registered as a subtree
// so both /tab and /tab/ resolve; its assets are served relative to its
// directory.
func (h *StaticHandler) Register(mux *http.ServeMux) {
	for _, tab := range []string{tabForecast, tabFraud, tabCredit} {
		dir := filepath.Join(h.root, tab)
		prefix := "/" + tab + "/"
		mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(dir))))
	}

	landing := filepath.Join(h.root, tabForecast, "index.html")
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// "/" is a catch-all on ServeMux; anything else under it is a miss.
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, landing)
	})
}
