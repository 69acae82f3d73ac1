//go:build !gcloud

package backend

import (
	"net/http"
)

// newHTTPClient creates a plain HTTP client for local development.
func newHTTPClient(_ string) *http.Client {
	return &http.Client{}
}
