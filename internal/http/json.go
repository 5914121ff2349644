package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
)

const maxJSONBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.ValidationErr.WithMsg("invalid JSON body: " + err.Error()).WrapParent(err)
	}
	return nil
}
