package deschttp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frantjc/appdesc/internal/descerr"
)

const (
	ContentTypeJSON = "application/json"
)

func respondJSON(w http.ResponseWriter, a any, pretty bool) error {
	w.Header().Set("Content-Type", ContentTypeJSON)

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}

	return enc.Encode(a)
}

func respondErrorJSON(w http.ResponseWriter, err error, pretty bool) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(descerr.HTTPStatusCode(err))

	return respondJSON(w, map[string]string{"error": err.Error()}, pretty)
}

func wantsPretty(r *http.Request) bool {
	pretty, _ := strconv.ParseBool(r.URL.Query().Get("pretty"))
	return pretty
}
