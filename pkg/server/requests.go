package server

import (
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
)

type FieldsQuery struct {
	Scope string `schema:"scope"`
}

type ChoicesQuery struct {
	DataType string `schema:"datatype"`
}

// LoadRequest is read from the query string and then, when present, from
// a json body. Flags are names joined by "|" or ",".
type LoadRequest struct {
	Names   []string `json:"names" schema:"name"`
	Flags   string   `json:"flags" schema:"flags"`
	Refresh bool     `json:"refresh" schema:"refresh"`
}

func (l LoadRequest) ControlFlags() (types.ControlFlags, error) {
	return types.ParseControlFlags(l.Flags)
}

func decodeQuery(query url.Values, result any) error {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(result, query); err != nil {
		return types.NewCatalogError(types.InvalidArgument, "invalid query", err)
	}
	return nil
}

func loadRequestFromRequest(r *http.Request) (LoadRequest, error) {
	req := LoadRequest{}
	if err := decodeQuery(r.URL.Query(), &req); err != nil {
		return req, err
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := jsoncompat.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, types.NewCatalogError(types.InvalidArgument, "invalid load request", err)
		}
	}
	return req, nil
}
