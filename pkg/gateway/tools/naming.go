// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package tools

import (
	"encoding/hex"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// genericContentType is used whenever no better content type can be
// determined.
const genericContentType = "application/octet-stream"

// genericExtension is appended to keys whose content type yields no usable
// extension.
const genericExtension = "bin"

var base64Cleaner = strings.NewReplacer(" ", "", "\n", "", "\r", "", "\t", "")

// cleanBase64 prepares caller-supplied base64 text for strict decoding: a
// data URI header (everything up to and including the first comma) is
// discarded and embedded whitespace is stripped.
func cleanBase64(data string) string {
	data = strings.TrimSpace(data)
	if i := strings.Index(data, ","); i >= 0 {
		data = data[i+1:]
	}
	return base64Cleaner.Replace(data)
}

// extensionForType derives a filename extension (without the dot) from a
// content type. The subtype is used directly ("image/png" -> "png",
// "image/svg+xml" -> "svg"); types without a usable subtype map to the
// generic binary extension. This is a best-effort heuristic, not a registry
// lookup.
func extensionForType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(contentType)

	slash := strings.Index(contentType, "/")
	if slash < 0 || slash == len(contentType)-1 {
		return genericExtension
	}

	subtype := contentType[slash+1:]
	if i := strings.Index(subtype, "+"); i >= 0 {
		subtype = subtype[:i]
	}
	if subtype == "" || subtype == "octet-stream" {
		return genericExtension
	}
	return subtype
}

// ensureExtension returns name unchanged if it already contains an
// extension, and name with ext appended otherwise.
func ensureExtension(name, ext string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + "." + ext
}

// typeForFilename guesses a content type from a filename's extension,
// falling back to the generic binary type.
func typeForFilename(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return genericContentType
	}
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return genericContentType
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType
}

// randomHex returns 32 lowercase hexadecimal characters derived from a
// freshly generated random identifier.
func randomHex() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// firstChars returns at most n leading characters of s, for use in
// diagnostics.
func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
