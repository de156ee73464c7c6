// Package web serves the califica JSON API over HTTP.
// Binds to localhost only. Admin endpoints additionally require the admin
// PIN in the X-Admin-Pin header.
package web

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corey/califica/internal/domain/ratings"
	"github.com/corey/califica/internal/domain/requests"
	"github.com/corey/califica/internal/domain/snapshot"
)

// Backend is the application surface the API exposes. Implemented by app.App.
type Backend interface {
	Courses() []ratings.CourseSummary
	AddCourse(name string) error
	Professors(course, query string) ([]ratings.Ranked, error)
	Professor(course, name string) (ratings.ProfessorProfile, error)
	DeleteProfessor(course, name string) error
	Suggest(course, query string) ([]string, error)
	Stats(course string) (ratings.CourseStats, error)
	AddReview(course, professor string, rating float64, comment string) (string, error)
	RemoveReview(course, professor, id string) error

	Requests() requests.List
	SubmitRequest(course, details, email string) (requests.Request, error)
	SetRequestStatus(id string, status requests.Status) (requests.Request, error)

	ExportSnapshot() ([]byte, error)
	ImportSnapshot(data []byte) (snapshot.Summary, error)

	Theme() string
	SetTheme(theme string) (string, error)
	VerifyPin(pin string) error
}

// Server serves the JSON API.
type Server struct {
	backend  Backend
	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once

	portFilePath string // .califica/run/http.port
}

// NewServer creates an HTTP server for the API.
// The portFilePath is where the bound port is written for discovery.
func NewServer(backend Backend, portFilePath string) *Server {
	return &Server{
		backend:      backend,
		portFilePath: portFilePath,
		started:      time.Now(),
	}
}

// DefaultPort computes a project-specific port: 19000 + (hash(abs_path) % 1000).
func DefaultPort(projectRoot string) int {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	// Use first 4 bytes as uint32
	n := uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3])
	return 19000 + int(n%1000)
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/courses", s.handleCourses)
	mux.HandleFunc("POST /api/courses", s.admin(s.handleAddCourse))
	mux.HandleFunc("GET /api/courses/{course}/professors", s.handleProfessors)
	mux.HandleFunc("GET /api/courses/{course}/professors/{name}", s.handleProfessor)
	mux.HandleFunc("DELETE /api/courses/{course}/professors/{name}", s.admin(s.handleDeleteProfessor))
	mux.HandleFunc("GET /api/courses/{course}/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/courses/{course}/stats", s.handleStats)
	mux.HandleFunc("POST /api/courses/{course}/reviews", s.handleAddReview)
	mux.HandleFunc("DELETE /api/courses/{course}/professors/{name}/reviews/{id}", s.handleRemoveReview)

	mux.HandleFunc("GET /api/requests", s.handleRequests)
	mux.HandleFunc("POST /api/requests", s.handleSubmitRequest)
	mux.HandleFunc("POST /api/requests/{id}/status", s.admin(s.handleRequestStatus))

	mux.HandleFunc("GET /api/export", s.admin(s.handleExport))
	mux.HandleFunc("POST /api/import", s.admin(s.handleImport))

	mux.HandleFunc("GET /api/theme", s.handleTheme)
	mux.HandleFunc("PUT /api/theme", s.handleSetTheme)
	return s.logRequests(mux)
}

// Start begins listening on the preferred port. Writes the port to the port file.
func (s *Server) Start(preferredPort int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", preferredPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Write port file for discovery
	if s.portFilePath != "" {
		os.WriteFile(s.portFilePath, []byte(fmt.Sprintf("%d", s.port)), 0644)
	}

	go s.httpSrv.Serve(ln)
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the API base URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}
