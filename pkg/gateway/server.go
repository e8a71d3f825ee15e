// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package gateway provides the object upload gateway peer: an MCP server
// that persists binary artifacts into an object storage bucket and hands
// back public URLs.
package gateway

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"storj.io/uploadgw/pkg/gateway/middleware"
	"storj.io/uploadgw/pkg/gateway/tools"
	"storj.io/uploadgw/pkg/httpserver"
	"storj.io/uploadgw/pkg/objstore"
)

// instructions is handed to MCP clients on initialize so a calling agent
// knows what the tool surface is for.
const instructions = `This server persists binary artifacts (screenshots, local files, remote URLs) into an object storage bucket and returns public URLs.

Available tools:
1. upload_image - upload a base64-encoded image (e.g. a screenshot) and get a public URL
2. upload_file - upload a local file from the filesystem and get a public URL
3. upload_from_url - download a file from a URL and mirror it into the bucket
4. list_files - list files in the bucket with sizes and URLs
5. generate_random_string - generate a random hex string, useful for unique filenames

Common use cases:
- Save browser screenshots to permanent storage (upload_image)
- Move temporary local files to cloud storage (upload_file)
- Mirror or back up files from other servers (upload_from_url)

All uploaded files are accessible via public URLs.`

// Peer represents the object upload gateway server.
type Peer struct {
	log    *zap.Logger
	server *httpserver.Server
	config Config

	inShutdown int32
}

// New returns a new instance of the gateway peer serving the tool surface
// backed by store. The store client and bucket name are captured here once;
// the peer holds no other mutable state.
func New(log *zap.Logger, config Config, store objstore.Store) (*Peer, error) {
	mcpServer := server.NewMCPServer("uploadgw", tools.Version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	tools.New(tools.Config{
		Bucket:        config.Bucket,
		PublicBaseURL: config.PublicBaseURL,
	}, store).Add(mcpServer)

	r := mux.NewRouter()

	mcpRouter := r.PathPrefix("/mcp/jsonrpc").Subrouter()
	mcpRouter.Use(middleware.NewLogRequests(log))
	mcpRouter.Use(middleware.NewLogResponses(log))
	mcpRouter.NewRoute().Handler(server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	))

	srv, err := httpserver.New(log, r, httpserver.Config{
		Name:    "uploadgw",
		Address: config.Address,
	})
	if err != nil {
		return nil, err
	}

	peer := Peer{
		log:    log,
		server: srv,
		config: config,
	}

	r.HandleFunc("/health", peer.healthCheck)

	return &peer, nil
}

// Run starts the gateway server.
func (peer *Peer) Run(ctx context.Context) error {
	return peer.server.Run(ctx)
}

// Close shuts down the server and all underlying resources.
func (peer *Peer) Close() error {
	atomic.StoreInt32(&peer.inShutdown, 1)
	return peer.server.Shutdown()
}

// Address returns the web address the peer is listening on.
func (peer *Peer) Address() string {
	return peer.server.Addr()
}

func (peer *Peer) healthCheck(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&peer.inShutdown) != 0 {
		http.Error(w, "down", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
