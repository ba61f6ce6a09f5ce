package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"advisorlens/internal/config"
	"advisorlens/internal/storage"
	"advisorlens/internal/workflows"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg       config.Config
	db        *storage.DB
	runRepo   *storage.RunRepo
	auditRepo *storage.LLMAuditRepo
	temporal  tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	return &Server{
		cfg:       cfg,
		db:        db,
		runRepo:   storage.NewRunRepo(db),
		auditRepo: storage.NewLLMAuditRepo(db),
		temporal:  tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/runs/", s.handleRunScoped)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		runs, err := s.runRepo.ListRuns(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	case http.MethodPost:
		var req struct {
			TranscriptPath string `json:"transcript_path"`
			AnalysisMode   string `json:"analysis_mode"`
			SummaryType    string `json:"summary_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
			return
		}

		runID := uuid.NewString()
		we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
			ID:                                       "run-" + runID,
			TaskQueue:                                s.cfg.TemporalTaskQueue,
			WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
			WorkflowExecutionErrorWhenAlreadyStarted: true,
		}, workflows.MeetingAnalysisWorkflow, workflows.MeetingAnalysisInput{
			RunID:          runID,
			TranscriptPath: strings.TrimSpace(req.TranscriptPath),
			AnalysisMode:   strings.TrimSpace(req.AnalysisMode),
			SummaryType:    strings.TrimSpace(req.SummaryType),
		})
		if err != nil {
			writeErr(w, http.StatusConflict, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"run_id":      runID,
			"workflow_id": we.GetID(),
			"status":      workflows.StatusProcessing,
		})
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleRunScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/runs/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	runID := parts[0]
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}

	if len(parts) == 1 {
		run, err := s.runRepo.GetRun(r.Context(), runID)
		if err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, run)
		return
	}

	switch parts[1] {
	case "progress":
		resp, err := s.temporal.QueryWorkflow(r.Context(), "run-"+runID, "", workflows.QueryGetRunProgress)
		if err != nil {
			// Fall back to the stored run record once the workflow is gone.
			run, dbErr := s.runRepo.GetRun(r.Context(), runID)
			if dbErr != nil {
				writeErr(w, http.StatusNotFound, err)
				return
			}
			writeJSON(w, http.StatusOK, workflows.RunProgress{RunID: runID, Status: run.Status, FailReason: run.FailReason})
			return
		}
		var prog workflows.RunProgress
		if err := resp.Get(&prog); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, prog)
	case "results":
		s.serveArtifact(w, r, runID, "results")
	case "report":
		s.serveArtifact(w, r, runID, "report")
	case "llm-calls":
		counts, err := s.auditRepo.CountByStatus(r.Context(), runID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "calls_by_status": counts})
	default:
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
	}
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, runID, kind string) {
	run, err := s.runRepo.GetRun(r.Context(), runID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	path := run.ResultsPath
	contentType := "application/json"
	if kind == "report" {
		path = run.ReportPath
		contentType = "text/plain; charset=utf-8"
	}
	if strings.TrimSpace(path) == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("%s artifact not available for run %s", kind, runID))
		return
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "AL-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "AL-DB-5001",
				Message: "Database schema is not initialized. Run migrations and retry.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "AL-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "AL-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "AL-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "AL-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "AL-API-4009"
		msg = "Operation conflicts with current state. Retry after checking status."
	case status == http.StatusMethodNotAllowed:
		code = "AL-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	if status >= 400 && status < 500 && err != nil {
		switch {
		case strings.Contains(raw, "invalid json"):
			msg = "Malformed JSON request body."
		case strings.Contains(raw, "artifact not available"):
			msg = "Run artifact is not available yet. Check run status first."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
