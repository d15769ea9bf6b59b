package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
)

var ErrNotFound = errors.New("not found")

type JsonHandlerFunc func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error

type errorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps handler errors to a response status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrFetch), errors.Is(err, types.ErrUnexpected):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// JsonHandler sets up a json response. Handlers return errors before
// writing anything; the error is then written as {"error": "..."}.
func JsonHandler(fn JsonHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		enc := jsoncompat.NewEncoder(w)
		err := fn(w, r, enc)
		if err != nil {
			status := StatusFor(err)
			log.Printf("error handling %s %s: %v", r.Method, r.URL.Path, err)
			w.WriteHeader(status)
			if encErr := enc.Encode(errorResponse{Error: err.Error()}); encErr != nil {
				log.Printf("error writing error response: %v", encErr)
			}
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
