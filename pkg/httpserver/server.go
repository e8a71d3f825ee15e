// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package httpserver wraps net/http with structured logging and graceful
// shutdown.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var mon = monkit.Package()

// DefaultShutdownTimeout is the default ShutdownTimeout (see Config).
const DefaultShutdownTimeout = time.Second * 10

// Config holds the HTTP server configuration.
type Config struct {
	// Name is the name of the server. It is only used for logging. It can
	// be empty.
	Name string

	// Address is the address to bind the server to. It must be set.
	Address string

	// ShutdownTimeout controls how long to wait for requests to finish
	// before returning from Shutdown(). It defaults to 10 seconds if unset.
	// If set to a negative value, the server is closed immediately.
	ShutdownTimeout time.Duration
}

// Server is the HTTP server.
//
// architecture: Endpoint
type Server struct {
	log *zap.Logger

	listener        net.Listener
	server          *http.Server
	shutdownTimeout time.Duration
}

// New creates a new HTTP server. It starts listening immediately so that
// Addr() reports the bound address before Run is called.
func New(log *zap.Logger, handler http.Handler, config Config) (*Server, error) {
	switch {
	case config.Address == "":
		return nil, errs.New("server address is required")
	case handler == nil:
		return nil, errs.New("server handler is required")
	}

	listener, err := net.Listen("tcp", config.Address)
	if err != nil {
		return nil, errs.New("unable to listen on %s: %v", config.Address, err)
	}

	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	if config.Name != "" {
		log = log.With(zap.String("server", config.Name))
	}

	return &Server{
		log:      log,
		listener: listener,
		server: &http.Server{
			Handler:  handler,
			ErrorLog: zap.NewStdLog(log),
		},
		shutdownTimeout: config.ShutdownTimeout,
	}, nil
}

// Run runs the server until Shutdown is called.
func (server *Server) Run(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)

	server.log.Info("HTTP server started", zap.String("addr", server.Addr()))
	err = server.server.Serve(server.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	server.log.Error("Server closed unexpectedly", zap.Error(err))
	return err
}

// Shutdown gracefully shuts the server down, with the configured timeout.
// If the timeout is less than 0, all connections are closed immediately
// instead of waiting.
func (server *Server) Shutdown() error {
	server.log.Info("HTTP server shutting down")

	if server.shutdownTimeout < 0 {
		return server.server.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), server.shutdownTimeout)
	defer cancel()

	return server.server.Shutdown(ctx)
}

// Addr returns the public address.
func (server *Server) Addr() string {
	return server.listener.Addr().String()
}
