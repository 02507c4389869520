// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package docs embeds the OpenAPI description of the election results API.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var OpenAPI []byte

// Handler serves the OpenAPI document.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(OpenAPI)
}
