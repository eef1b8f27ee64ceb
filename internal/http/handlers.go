package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"precatorios/internal/amqp"
	"precatorios/internal/core"
	applog "precatorios/internal/log"
)

// handleDataset serves the full record list of one source as a JSON array
func (s *Server) handleDataset(source core.Source) http.HandlerFunc {
	failure := "Erro ao carregar a planilha " + source.Label()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
		defer cancel()

		records, err := s.loader.Load(ctx, source)
		if err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Dataset request failed",
				applog.FieldSource, source.String(),
				applog.FieldError, err)
			writeError(w, http.StatusInternalServerError, failure)
			return
		}
		if records == nil {
			records = []core.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}

type importResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// handleImport queues a spreadsheet import for the worker
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	source, err := core.ParseSource(r.PathValue("source"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Planilha desconhecida")
		return
	}
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "Importação indisponível")
		return
	}

	msg := amqp.NewImportRequest(source)
	if err := s.publisher.PublishImportRequest(r.Context(), msg); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to queue import",
			applog.FieldSource, source.String(),
			applog.FieldImportID, msg.ID.String(),
			applog.FieldOperation, applog.OpPublish,
			applog.FieldError, err)
		status := http.StatusBadGateway
		if errors.Is(err, amqp.ErrCircuitOpen) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, "Falha ao enfileirar a importação")
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Import queued",
		applog.FieldSource, source.String(),
		applog.FieldImportID, msg.ID.String())
	writeJSON(w, http.StatusAccepted, importResponse{ID: msg.ID.String(), Source: source.String()})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
