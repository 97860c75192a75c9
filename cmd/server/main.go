package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/message"

	"edinet-facts/pkg/db"
	"edinet-facts/pkg/edinet"
	"edinet-facts/pkg/extract"
	"edinet-facts/pkg/facttable"
	"edinet-facts/pkg/xbrl"
)

//go:embed template.html
var templateHTML string

//go:embed index.html
var indexHTML string

//go:embed styles.css
var stylesCSS string

var printer = message.NewPrinter(message.MatchLanguage("ja"))

var templateFuncs = template.FuncMap{
	"formatValue": extract.FormatValue,
	"formatCount": func(n int) string {
		return printer.Sprintf("%d", n)
	},
}

var tpl = template.Must(template.New("filing").Funcs(templateFuncs).Parse(templateHTML))
var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const cacheMaxAge = 30 * 24 * time.Hour

type Server struct {
	db     *db.DB
	client *edinet.Client

	// One parser with single-slot state serves all requests; mu
	// serializes extractions, per the engine's concurrency contract.
	mu        sync.Mutex
	parser    *xbrl.Parser
	lastDocID string
}

func NewServer(database *db.DB, client *edinet.Client) *Server {
	return &Server{
		db:     database,
		client: client,
		parser: xbrl.NewParser(),
	}
}

// ensureArchive returns the cached archive for a document, downloading
// and caching it on a miss.
func (s *Server) ensureArchive(ctx context.Context, docID string) ([]byte, error) {
	cached, err := s.db.HasArchive(docID)
	if err != nil {
		return nil, err
	}
	if cached {
		_, archive, err := s.db.GetArchive(docID)
		return archive, err
	}

	log.Printf("downloading XBRL archive for %s", docID)
	archive, err := s.client.DownloadXBRL(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := s.db.StoreArchive(docID, "", "", archive); err != nil {
		log.Printf("warning: failed to cache archive for %s: %v", docID, err)
	}
	return archive, nil
}

// extractDocument runs the parser over a document's archive and caches
// the result. Must be called with s.mu held.
func (s *Server) extractDocument(ctx context.Context, docID string) (*xbrl.Result, error) {
	archive, err := s.ensureArchive(ctx, docID)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "edinet-archive-*.zip")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(archive); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	result, err := s.parser.ExtractArchive(tmp.Name())
	if err != nil {
		return nil, err
	}
	s.lastDocID = docID

	if err := s.db.StoreResult(docID, result); err != nil {
		log.Printf("warning: failed to cache result for %s: %v", docID, err)
	}
	return result, nil
}

// handleFiling handles GET /filing/{docID}
func (s *Server) handleFiling(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("docID")
	if docID == "" {
		http.Error(w, "docID parameter is required", http.StatusBadRequest)
		return
	}

	var result *xbrl.Result
	stale, err := s.db.IsResultStale(docID, cacheMaxAge)
	if err != nil {
		log.Printf("error checking result staleness for %s: %v", docID, err)
		stale = true
	}
	if !stale {
		result, err = s.db.GetResult(docID)
		if err != nil {
			log.Printf("error reading cached result for %s: %v", docID, err)
			stale = true
		}
	}
	if stale {
		s.mu.Lock()
		result, err = s.extractDocument(r.Context(), docID)
		s.mu.Unlock()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to extract filing: %v", err), http.StatusBadGateway)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		DocID  string
		Result *xbrl.Result
	}{docID, result}
	if err := tpl.Execute(w, data); err != nil {
		log.Printf("failed to execute template: %v", err)
	}
}

// handleSearch handles GET /filing/{docID}/search?q=keyword
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("docID")
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if docID == "" || query == "" {
		http.Error(w, "docID and q parameters are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	var facts []facttable.Fact
	var err error
	if s.lastDocID != docID {
		_, err = s.extractDocument(r.Context(), docID)
	}
	if err == nil {
		facts = s.parser.Search(strings.Fields(query)...)
	}
	s.mu.Unlock()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load filing: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if facts == nil {
		facts = []facttable.Fact{}
	}
	if err := json.NewEncoder(w).Encode(facts); err != nil {
		log.Printf("failed to encode search results: %v", err)
	}
}

// handleDocuments handles GET /docs?date=YYYY-MM-DD, proxying the EDINET
// document list.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	}
	list, err := s.client.ListDocuments(r.Context(), date, 2)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list documents: %v", err), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		log.Printf("failed to encode document list: %v", err)
	}
}

// handleIndex serves the root page with the cached filings.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	filings, err := s.db.ListFilings()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list filings: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, filings); err != nil {
		log.Printf("failed to execute index template: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write([]byte(stylesCSS))
}

func main() {
	godotenv.Load()

	dbPath := os.Getenv("EDINET_FACTS_DB")
	if dbPath == "" {
		dbPath = filepath.Join(".", "edinet.db")
	}
	database, err := db.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	client, err := edinet.NewClient(os.Getenv("EDINET_API_KEY"), 2)
	if err != nil {
		log.Fatalf("Failed to initialize EDINET client: %v", err)
	}

	server := NewServer(database, client)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /filing/{docID}", server.handleFiling)
	mux.HandleFunc("GET /filing/{docID}/search", server.handleSearch)
	mux.HandleFunc("GET /docs", server.handleDocuments)
	mux.HandleFunc("GET /health", server.handleHealth)
	mux.HandleFunc("GET /styles.css", server.handleStyles)
	mux.HandleFunc("GET /", server.handleIndex)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting EDINET facts server on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
