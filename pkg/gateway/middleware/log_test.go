// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"storj.io/uploadgw/pkg/gateway/middleware"
)

func TestLogRequests(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	handler := middleware.LogRequests(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp/jsonrpc", nil)
	handler.ServeHTTP(rec, req)

	entries := logs.FilterMessage("access").All()
	require.Len(t, entries, 1)
	require.Equal(t, zap.DebugLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	require.Equal(t, http.MethodPost, fields["method"])
	require.Equal(t, "/mcp/jsonrpc", fields["uri"])
}

func TestLogResponses(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	handler := middleware.LogResponses(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.FilterMessage("response").All()
	require.Len(t, entries, 1)
	require.Equal(t, zap.InfoLevel, entries[0].Level)
	require.EqualValues(t, http.StatusNotFound, entries[0].ContextMap()["code"])
}

func TestLogResponsesServerError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	handler := middleware.LogResponses(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	entries := logs.FilterMessage("response").All()
	require.Len(t, entries, 1)
	require.Equal(t, zap.ErrorLevel, entries[0].Level)
}

func TestLogResponsesDefaultsToOK(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	handler := middleware.LogResponses(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	entries := logs.FilterMessage("response").All()
	require.Len(t, entries, 1)
	require.EqualValues(t, http.StatusOK, entries[0].ContextMap()["code"])
}
