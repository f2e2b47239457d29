package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/unixdj/bysquare"
	"github.com/unixdj/bysquare/abi"
)

// maxBody bounds request bodies.  A code holds at most 64 KiB of
// payload, so neither orders nor codes come close.
const maxBody = 1 << 20

const requestIDHeader = "X-Request-Id"

type server struct {
	log *slog.Logger
}

func newRouter(log *slog.Logger) http.Handler {
	s := &server{log: log}
	r := chi.NewRouter()
	r.Use(requestID, s.logRequests, middleware.Recoverer)
	r.Get("/healthz", s.healthz)
	r.Get("/version", s.version)
	r.Get("/detect", s.detect)
	r.Post("/encode", s.encode)
	r.Post("/decode", s.decode)
	return r
}

// requestID keeps the caller's X-Request-Id or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"id", r.Header.Get(requestIDHeader),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError maps err to a status code and an error kind.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := http.StatusBadRequest, "request"
	var (
		ve *bysquare.ValidationError
		fe *bysquare.FormatError
		ue *bysquare.UnsupportedVersionError
		ce *bysquare.ChecksumError
		de *bysquare.DecompressionError
		te *bysquare.TextDecodeError
	)
	switch {
	case errors.As(err, &ve):
		status, kind = http.StatusUnprocessableEntity, "validation"
	case errors.As(err, &fe):
		status, kind = http.StatusUnprocessableEntity, "format"
	case errors.As(err, &ce):
		status, kind = http.StatusUnprocessableEntity, "checksum"
	case errors.As(err, &de):
		status, kind = http.StatusUnprocessableEntity, "decompression"
	case errors.As(err, &ue):
		kind = "unsupported_version"
	case errors.As(err, &te):
		kind = "text"
	}
	s.log.Debug("rejected", "id", r.Header.Get(requestIDHeader),
		"kind", kind, "err", err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

// config reads the version, deburr and validate query parameters.
func config(r *http.Request) (*bysquare.Config, error) {
	q := r.URL.Query()
	v, err := bysquare.ParseVersion(q.Get("version"))
	if err != nil {
		return nil, err
	}
	c := &bysquare.Config{Version: v}
	for _, f := range []struct {
		name string
		no   *bool
	}{
		{"deburr", &c.NoDeburr},
		{"validate", &c.NoValidate},
	} {
		if s := q.Get(f.name); s != "" {
			on, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errors.New("bad " + f.name + " parameter: " + s)
			}
			*f.no = !on
		}
	}
	return c, nil
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": abi.Version(),
		"format":  bysquare.VersionLatest.String(),
	})
}

type codeJSON struct {
	QR string `json:"qr"`
}

func (s *server) encode(w http.ResponseWriter, r *http.Request) {
	c, err := config(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var o bysquare.PaymentOrder
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&o); err != nil {
		s.writeError(w, r, errors.New("bad payment order: "+err.Error()))
		return
	}
	qr, err := bysquare.Encode(&o, c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codeJSON{QR: qr})
}

// decode accepts {"qr": "..."} or the bare code as the body.
func (s *server) decode(w http.ResponseWriter, r *http.Request) {
	c, err := config(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qr := strings.TrimSpace(string(b))
	if strings.HasPrefix(qr, "{") {
		var v codeJSON
		if err := json.Unmarshal(b, &v); err != nil {
			s.writeError(w, r, errors.New("bad request body: "+err.Error()))
			return
		}
		qr = v.QR
	}
	o, err := bysquare.Decode(qr, c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *server) detect(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"detected": bysquare.Detect(r.URL.Query().Get("qr")),
	})
}
