package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/corey/califica/internal/apperr"
	"github.com/corey/califica/internal/domain/requests"
)

// maxImportBytes bounds snapshot uploads.
const maxImportBytes = 16 << 20

// HealthResult is the /api/health payload.
type HealthResult struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// ErrorResult is the body of every non-2xx response.
type ErrorResult struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

type courseBody struct {
	Name string `json:"name"`
}

type reviewBody struct {
	Professor string  `json:"professor"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
}

type requestBody struct {
	CourseName   string `json:"courseName"`
	Details      string `json:"details"`
	ContactEmail string `json:"contactEmail"`
}

type statusBody struct {
	Status string `json:"status"`
}

type themeBody struct {
	Theme string `json:"theme"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(t apperr.Type) int {
	switch t {
	case apperr.TypeValidation, apperr.TypeFormat:
		return http.StatusBadRequest
	case apperr.TypeUnauthorized:
		return http.StatusUnauthorized
	case apperr.TypeNotFound:
		return http.StatusNotFound
	case apperr.TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	t := apperr.TypeOf(err)
	msg := "internal error"
	var ae *apperr.AppError
	if errors.As(err, &ae) && t != apperr.TypeInternal {
		msg = ae.Message
	}
	if t == apperr.TypeInternal {
		log.Error().Err(err).Msg("api request failed")
	}
	writeJSON(w, statusFor(t), ErrorResult{Error: msg, Type: string(t)})
}

// decode reads a JSON body into v, reporting malformed input as a
// validation error.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.NewValidationError("malformed request body: " + err.Error())
	}
	return nil
}

// admin guards h behind the X-Admin-Pin header.
func (s *Server) admin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.backend.VerifyPin(r.Header.Get("X-Admin-Pin")); err != nil {
			writeError(w, err)
			return
		}
		h(w, r)
	}
}

// statusRecorder captures the response code for logging.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.code).
			Dur("elapsed", time.Since(start)).
			Msg("api request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResult{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Courses())
}

func (s *Server) handleAddCourse(w http.ResponseWriter, r *http.Request) {
	var body courseBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := s.backend.AddCourse(body.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleProfessors(w http.ResponseWriter, r *http.Request) {
	list, err := s.backend.Professors(r.PathValue("course"), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleProfessor(w http.ResponseWriter, r *http.Request) {
	p, err := s.backend.Professor(r.PathValue("course"), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProfessor(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteProfessor(r.PathValue("course"), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	list, err := s.backend.Suggest(r.PathValue("course"), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.backend.Stats(r.PathValue("course"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var body reviewBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	id, err := s.backend.AddReview(r.PathValue("course"), body.Professor, body.Rating, body.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleRemoveReview(w http.ResponseWriter, r *http.Request) {
	err := s.backend.RemoveReview(r.PathValue("course"), r.PathValue("name"), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Requests())
}

func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	var body requestBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := s.backend.SubmitRequest(body.CourseName, body.Details, body.ContactEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleRequestStatus(w http.ResponseWriter, r *http.Request) {
	var body statusBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	status, err := requests.ParseStatus(body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := s.backend.SetRequestStatus(r.PathValue("id"), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.backend.ExportSnapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="califica-export.json"`)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, apperr.NewFormatError("could not read snapshot", err))
		return
	}
	sum, err := s.backend.ImportSnapshot(data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: s.backend.Theme()})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	theme, err := s.backend.SetTheme(body.Theme)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: theme})
}
