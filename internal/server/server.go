// Package server exposes the query engine over HTTP for tooling that
// prefers a socket to a terminal.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nmelo/tabcat/internal/engine"
	"github.com/nmelo/tabcat/internal/query"
	"github.com/nmelo/tabcat/internal/table"
)

// Server serves queries against a single immutable table.
type Server struct {
	src    engine.RowSource
	exec   *engine.Executor
	logger *zap.Logger
}

// New creates a server. A nil logger disables logging.
func New(src engine.RowSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		src:    src,
		exec:   engine.NewExecutor(logger),
		logger: logger,
	}
}

// Handler returns the HTTP routes:
//
//	POST /query   {"query": "PROJECT ... FILTER ..."} -> columns + rows
//	GET  /columns                                     -> table name + columns
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/query", s.handleQuery).Methods(http.MethodPost)
	r.HandleFunc("/columns", s.handleColumns).Methods(http.MethodGet)
	r.Use(s.requestLog)
	return r
}

// ListenAndServe blocks serving the handler on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.logger.Info("serving queries", zap.String("addr", addr), zap.String("table", s.src.Name()))
	return srv.ListenAndServe()
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	q, err := query.Parse(req.Query)
	if err != nil {
		var perr *query.ParseError
		if errors.As(err, &perr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: perr.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	resp := queryResponse{Columns: q.Columns, Rows: []map[string]any{}}
	err = s.exec.Execute(s.src, q, func(row table.Row) error {
		resp.Rows = append(resp.Rows, rowObject(q.Columns, row))
		return nil
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"table":   s.src.Name(),
		"columns": s.src.ColumnNames(),
	})
}

// requestLog tags every request with an ID and logs it.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// rowObject converts a projected row to a JSON-friendly object.
func rowObject(columns []string, row table.Row) map[string]any {
	obj := make(map[string]any, len(columns))
	for _, col := range columns {
		v, ok := row[col]
		if !ok {
			continue
		}
		if i, isInt := v.AsInt(); isInt {
			obj[col] = i
		} else if sv, isStr := v.AsString(); isStr {
			obj[col] = sv
		}
	}
	return obj
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
