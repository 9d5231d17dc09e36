package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyBytes caps JSON request bodies. Post bodies are markdown text;
// 1 MiB is far beyond any legitimate article.
const maxBodyBytes = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// The body is size-limited and unknown fields are tolerated; per-field
// validation happens downstream where errors can be accumulated.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
