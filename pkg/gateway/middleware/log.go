// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package middleware provides HTTP middleware for the gateway's router.
package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gopkg.in/webhelp.v1/whmon"
	"gopkg.in/webhelp.v1/whroute"
)

// LogRequests logs requests.
func LogRequests(log *zap.Logger, h http.Handler) http.Handler {
	return whroute.HandlerFunc(h, func(w http.ResponseWriter, r *http.Request) {
		ce := log.Check(zap.DebugLevel, "access")
		if ce == nil {
			h.ServeHTTP(w, r)
			return
		}

		ce.Write(
			zap.String("method", r.Method),
			zap.String("host", r.Host),
			zap.String("uri", r.RequestURI),
			zap.Int64("request-size", r.ContentLength),
			zap.String("user-agent", r.UserAgent()),
		)

		h.ServeHTTP(w, r)
	})
}

// LogResponses logs responses.
func LogResponses(log *zap.Logger, h http.Handler) http.Handler {
	return whmon.MonitorResponse(whroute.HandlerFunc(h,
		func(w http.ResponseWriter, r *http.Request) {
			rw := w.(whmon.ResponseWriter)
			start := time.Now()

			defer func() {
				rec := recover()
				if rec != nil {
					log.Error("panic", zap.Any("recover", rec))
					panic(rec)
				}
			}()
			h.ServeHTTP(rw, r)

			if !rw.WroteHeader() {
				rw.WriteHeader(http.StatusOK)
			}

			level := zap.InfoLevel
			if rw.StatusCode() >= http.StatusInternalServerError {
				level = zap.ErrorLevel
			}

			ce := log.Check(level, "response")
			if ce == nil {
				return
			}

			ce.Write(
				zap.String("method", r.Method),
				zap.String("host", r.Host),
				zap.String("uri", r.RequestURI),
				zap.Int("code", rw.StatusCode()),
				zap.Int64("request-size", r.ContentLength),
				zap.Int64("response-size", rw.Written()),
				zap.String("user-agent", r.UserAgent()),
				zap.Duration("duration", time.Since(start)),
			)
		}))
}

// NewLogRequests is a convenience wrapper around LogRequests that returns
// LogRequests as mux.MiddlewareFunc.
func NewLogRequests(log *zap.Logger) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return LogRequests(log, h)
	}
}

// NewLogResponses is a convenience wrapper around LogResponses that returns
// LogResponses as mux.MiddlewareFunc.
func NewLogResponses(log *zap.Logger) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return LogResponses(log, h)
	}
}
