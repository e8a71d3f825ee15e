// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package mcpclient provides a typed client for the gateway's MCP tools.
package mcpclient

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zeebo/errs"

	"storj.io/uploadgw/pkg/gateway/tools"
)

// Error is a class of mcp-client errors.
var Error = errs.Class("mcp-client")

// Client is used to interact with the gateway's MCP tools. Every tool
// returns a plain status string; tool-level failures surface as errors
// carrying the failure string.
type Client struct {
	c *client.Client
}

// New creates a new Client connected to serverURL.
func New(serverURL string) (*Client, error) {
	transport, err := transport.NewStreamableHTTP(serverURL)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	c := client.NewClient(transport)

	_, err = c.Initialize(context.Background(), mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
		},
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return &Client{c: c}, nil
}

// Close shuts down the client.
func (c *Client) Close() error {
	return Error.Wrap(c.c.Close())
}

// UploadImageRequest is a type of request to upload a base64 image.
type UploadImageRequest struct {
	Base64Data  string `json:"base64_data"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// UploadImage calls the upload_image tool and returns its status string.
func (c *Client) UploadImage(ctx context.Context, req UploadImageRequest) (string, error) {
	return c.callTool(ctx, tools.ToolUploadImage, req)
}

// UploadFileRequest is a type of request to upload a local file.
type UploadFileRequest struct {
	FilePath       string `json:"file_path"`
	TargetFilename string `json:"target_filename,omitempty"`
	ContentType    string `json:"content_type,omitempty"`
}

// UploadFile calls the upload_file tool and returns its status string.
func (c *Client) UploadFile(ctx context.Context, req UploadFileRequest) (string, error) {
	return c.callTool(ctx, tools.ToolUploadFile, req)
}

// UploadFromURLRequest is a type of request to mirror a remote file.
type UploadFromURLRequest struct {
	URL            string `json:"url"`
	TargetFilename string `json:"target_filename,omitempty"`
	ContentType    string `json:"content_type,omitempty"`
}

// UploadFromURL calls the upload_from_url tool and returns its status string.
func (c *Client) UploadFromURL(ctx context.Context, req UploadFromURLRequest) (string, error) {
	return c.callTool(ctx, tools.ToolUploadFromURL, req)
}

// ListFilesRequest is a type of request to list files in the bucket.
type ListFilesRequest struct {
	Prefix string `json:"prefix,omitempty"`
}

// ListFiles calls the list_files tool and returns its listing string.
func (c *Client) ListFiles(ctx context.Context, req ListFilesRequest) (string, error) {
	return c.callTool(ctx, tools.ToolListFiles, req)
}

// GenerateRandomStringRequest is a type of request to generate a random
// string.
type GenerateRandomStringRequest struct {
	Length int `json:"length,omitempty"`
}

// GenerateRandomString calls the generate_random_string tool and returns
// its status string.
func (c *Client) GenerateRandomString(ctx context.Context, req GenerateRandomStringRequest) (string, error) {
	return c.callTool(ctx, tools.ToolGenerateRandomString, req)
}

func (c *Client) callTool(ctx context.Context, name string, req any) (string, error) {
	args := make(map[string]any)
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", Error.Wrap(err)
	}
	if err := json.Unmarshal(jsonData, &args); err != nil {
		return "", Error.Wrap(err)
	}

	r, err := c.c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return "", Error.Wrap(err)
	}

	var message string
	if len(r.Content) > 0 {
		if text, ok := r.Content[0].(mcp.TextContent); ok {
			message = text.Text
		}
	}

	if r.IsError {
		return "", Error.New("tool call failed: %s", message)
	}

	return message, nil
}
