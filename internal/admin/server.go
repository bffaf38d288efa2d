package admin

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"lithosguard/internal/classifier"
	"lithosguard/internal/monitor"
	"lithosguard/internal/sensors"
)

// Server exposes a running monitor over HTTP.
type Server struct {
	Monitor *monitor.Monitor
	tpl     *template.Template
	mux     *http.ServeMux
}

//go:embed templates/index.html
var content embed.FS

// NewServer creates a server for m.
func NewServer(m *monitor.Monitor) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	s := &Server{Monitor: m, tpl: tpl, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/status", s.handleStatus)
	s.mux.HandleFunc("/buffer", s.handleBuffer)
	s.mux.HandleFunc("/commands", s.handleCommands)
	s.mux.HandleFunc("/sensors", s.handleSensors)
	s.mux.HandleFunc("/reset", s.handleReset)
	s.mux.HandleFunc("/test-siren", s.handleTestSiren)
	s.mux.HandleFunc("/data-source", s.handleDataSource)
	s.mux.HandleFunc("/seismic", s.handleSeismic)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on addr.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Status   monitor.Status
		Commands []monitor.CommandRecord
		Nodes    []sensors.Node
	}{
		Status:   s.Monitor.Status(),
		Commands: s.Monitor.Commands(),
		Nodes:    s.Monitor.Nodes(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Monitor.Status())
}

func (s *Server) handleBuffer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Monitor.Buffer())
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	cmds := s.Monitor.Commands()
	if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 && lim < len(cmds) {
		cmds = cmds[len(cmds)-lim:]
	}
	if cmds == nil {
		cmds = []monitor.CommandRecord{}
	}
	writeJSON(w, cmds)
}

func (s *Server) handleSensors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Monitor.Nodes())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.Monitor.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTestSiren(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	writeJSON(w, s.Monitor.TestSiren(r.Context()))
}

func (s *Server) handleDataSource(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		writeJSON(w, map[string]string{"data_source": s.Monitor.DataSource()})
		return
	}
	if !requirePost(w, r) {
		return
	}
	if err := s.Monitor.SetDataSource(r.URL.Query().Get("source")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSeismic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amp, err := strconv.ParseFloat(q.Get("amplitude"), 64)
	if err != nil {
		http.Error(w, "invalid amplitude", http.StatusBadRequest)
		return
	}
	freq, err := strconv.ParseFloat(q.Get("freq"), 64)
	if err != nil {
		http.Error(w, "invalid freq", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"amplitude": amp,
		"freq_hz":   freq,
		"class":     classifier.ClassifySeismicEvent(amp, freq),
	})
}
