package server

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"aegisai/aegis/pkg/auditlog"
	"aegisai/aegis/pkg/pipeline"
	"aegisai/aegis/pkg/telemetry/logging"
)

// handlePipeline builds the handler for one workflow endpoint. The request
// body is the pipeline request; the kind comes from the route.
func (s *Server) handlePipeline(kind pipeline.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}

		var req pipeline.Request
		if err := decodeBody(r, &req); err != nil {
			writeError(w, &pipeline.ValidationError{Reason: "malformed JSON body"})
			return
		}
		req.Kind = kind
		req.IPAddress = clientIP(r)
		req.UserAgent = r.UserAgent()
		req.RequestID = logging.RequestID(r.Context())

		result, err := s.orchestrator.Run(r.Context(), bearerToken(r), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, result, result.SessionID)
	}
}

// auditLogsRequest selects a report type and filters the records it covers.
type auditLogsRequest struct {
	ReportType       string     `json:"report_type"`
	UserID           string     `json:"user_id"`
	EventType        string     `json:"event_type"`
	RiskLevel        string     `json:"risk_level"`
	ComplianceStatus string     `json:"compliance_status"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	Limit            int        `json:"limit"`
	Offset           int        `json:"offset"`
}

func (s *Server) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	uc, err := s.verifier.Verify(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	var req auditLogsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &pipeline.ValidationError{Reason: "malformed JSON body"})
		return
	}

	query := &auditlog.Query{
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		UserID:           req.UserID,
		EventType:        req.EventType,
		RiskLevel:        req.RiskLevel,
		ComplianceStatus: req.ComplianceStatus,
		Limit:            req.Limit,
		Offset:           req.Offset,
	}

	out, err := s.orchestrator.AuditLogs(r.Context(), uc, req.ReportType, query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, out, "")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeSuccess(w, map[string]any{"status": "ok"}, "")
}

// decodeBody parses the JSON request body into dst. An empty body leaves
// dst zero-valued, which the pipeline validates per kind.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// clientIP prefers the first X-Forwarded-For hop, then the connection
// address with its port stripped.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
