package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/assetcheck/internal/core"
	"github.com/JonMunkholm/assetcheck/internal/logging"
	"github.com/JonMunkholm/assetcheck/internal/sheet"
)

// multipartMemory caps how much of a multipart form is held in memory;
// the rest spills to temporary files.
const multipartMemory = 32 << 20

// ProfileInfo is the API view of a profile.
type ProfileInfo struct {
	Key         string         `json:"key"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Default     bool           `json:"default"`
	Vocabulary  map[string]int `json:"vocabulary_sizes"`
}

// RunDetail is the full JSON view of a run.
type RunDetail struct {
	core.RunSummary
	Headers []string           `json:"headers"`
	Series  []core.SeriesPoint `json:"series"`
	Result  core.DatasetResult `json:"result"`
}

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	runs := s.service.ListRuns()
	if len(runs) > recentRunsOnIndex {
		runs = runs[:recentRunsOnIndex]
	}
	s.render(w, r, indexPage(s.service.ListProfiles(), s.service.DefaultProfile(), runs))
}

// handleValidate reads an uploaded sheet, evaluates it and stores the run.
//
// Form fields: file (required), profile (optional), view=html to be redirected
// to the report page instead of receiving JSON.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(min(maxSize, multipartMemory)); err != nil {
		if statusFor(err) != http.StatusRequestEntityTooLarge {
			err = fmt.Errorf("%w: %v", errNoFile, err)
		}
		s.respondError(w, r, err, 0)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	counter := sheet.NewCountingReader(file)
	ds, err := sheet.Read(header.Filename, counter)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	run, err := s.service.Validate(r.Context(), r.FormValue("profile"), ds)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	logging.WithFields(r.Context(),
		"run_id", run.ID,
		"file", header.Filename,
		"bytes", counter.BytesRead,
	).Info("upload validated")

	reportURL := "/runs/" + run.ID
	switch {
	case r.FormValue("view") == "html":
		http.Redirect(w, r, reportURL, http.StatusSeeOther)
		return
	case isHTMX(r):
		w.Header().Set("HX-Redirect", reportURL)
	}
	w.Header().Set("Location", reportURL)
	writeJSON(w, http.StatusCreated, run.Summary())
}

// handleRunPage renders the HTML report for one run.
func (s *Server) handleRunPage(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	s.render(w, r, reportPage(run))
}

// handleListRuns returns summaries of live runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.service.ListRuns()
	out := make([]core.RunSummary, len(runs))
	for i, run := range runs {
		out[i] = run.Summary()
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetRun returns the full result of a run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, RunDetail{
		RunSummary: run.Summary(),
		Headers:    run.Headers,
		Series:     run.Result.Counts.Series(),
		Result:     run.Result,
	})
}

// handleRunSummary returns the aggregate counts of a run.
func (s *Server) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, run.Summary())
}

func (s *Server) handleDownloadCorrected(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, sheet.CorrectedSheet)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, sheet.ReportSheet)
}

// download writes one sheet of a run as an attachment (?format=csv|xlsx).
func (s *Server) download(w http.ResponseWriter, r *http.Request, build func(*core.Run) sheet.Sheet) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	format, err := sheet.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sh := build(run)

	// Encode to a buffer first so a write error can still produce an error response.
	var buf bytes.Buffer
	if err := sheet.Write(&buf, format, sh); err != nil {
		s.respondError(w, r, fmt.Errorf("encode %s: %w", sh.Name, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.FileName(sh.Name, format)))
	http.ServeContent(w, r, "", run.CreatedAt, bytes.NewReader(buf.Bytes()))
}

// handleListProfiles returns every registered profile.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := s.service.ListProfiles()
	out := make([]ProfileInfo, len(profiles))
	for i, p := range profiles {
		sizes := make(map[string]int, len(core.VocabularyNames))
		for _, name := range core.VocabularyNames {
			if v, ok := p.Vocabularies.Lookup(name); ok {
				sizes[name] = v.Len()
			}
		}
		out[i] = ProfileInfo{
			Key:         p.Key,
			Label:       p.Label,
			Description: p.Description,
			Default:     p.Key == s.service.DefaultProfile(),
			Vocabulary:  sizes,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleHealth reports liveness plus limiter usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.service.LimiterStatus()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"time":               time.Now().UTC().Format(time.RFC3339),
		"profiles":           core.ProfileCount(),
		"runs":               len(s.service.ListRuns()),
		"validations_active": st.Active,
		"validations_max":    st.MaxConcurrent,
	})
}
