package server

import (
	"fmt"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
)

type FieldResponse struct {
	Field types.LightweightField `json:"field"`
	Scope types.Scope            `json:"scope"`
}

type MnemonicResponse struct {
	Name     string `json:"name"`
	Mnemonic string `json:"mnemonic"`
}

type StatusResponse struct {
	State        catalog.LoadState `json:"state"`
	System       int               `json:"system"`
	Shared       int               `json:"shared"`
	Local        int               `json:"local"`
	ContentTypes int               `json:"contentTypes"`
}

func publicHeaders(w http.ResponseWriter, cacheTime string) {
	w.Header().Set("Cache-Control", "public, max-age="+cacheTime)
	w.Header().Set("Age", "0")
}

func sortedFieldList(m map[string]types.LightweightField) []types.LightweightField {
	ret := make([]types.LightweightField, 0, len(m))
	for _, f := range m {
		ret = append(ret, f)
	}
	slices.SortFunc(ret, func(a, b types.LightweightField) int {
		return strings.Compare(a.Name, b.Name)
	})
	return ret
}

func (s *CatalogServer) GetFields(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	q := FieldsQuery{}
	if err := decodeQuery(r.URL.Query(), &q); err != nil {
		return err
	}
	scopes := []types.Scope{types.SystemScope, types.SharedScope, types.LocalScope}
	if q.Scope != "" {
		scope, err := types.ParseScope(q.Scope)
		if err != nil {
			return err
		}
		scopes = []types.Scope{scope}
	}
	result := make(map[string][]types.LightweightField, len(scopes))
	s.withCatalog(func(c *catalog.FieldCataloger) error {
		for _, scope := range scopes {
			result[scope.String()] = sortedFieldList(c.Fields(scope))
		}
		return nil
	})
	publicHeaders(w, "60")
	return enc.Encode(result)
}

func (s *CatalogServer) GetField(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	name := r.PathValue("name")
	var result FieldResponse
	found := false
	s.withCatalog(func(c *catalog.FieldCataloger) error {
		result.Field, result.Scope, found = c.Lookup(name)
		return nil
	})
	if !found {
		return fmt.Errorf("field %s: %w", name, common.ErrNotFound)
	}
	publicHeaders(w, "60")
	return enc.Encode(result)
}

func (s *CatalogServer) GetChoices(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	name := r.PathValue("name")
	q := ChoicesQuery{}
	if err := decodeQuery(r.URL.Query(), &q); err != nil {
		return err
	}
	var choices *types.DisplayChoices
	found := false
	err := s.withCatalog(func(c *catalog.FieldCataloger) (err error) {
		choices, found, err = c.DisplayChoices(name, q.DataType)
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("choices for %s (%s): %w", name, q.DataType, common.ErrNotFound)
	}
	publicHeaders(w, "60")
	return enc.Encode(choices)
}

func (s *CatalogServer) GetMnemonic(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	name := r.PathValue("name")
	result := MnemonicResponse{Name: name}
	found := false
	err := s.withCatalog(func(c *catalog.FieldCataloger) (err error) {
		result.Mnemonic, found, err = c.MnemonicKey(name)
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("mnemonic for %s: %w", name, common.ErrNotFound)
	}
	publicHeaders(w, "60")
	return enc.Encode(result)
}

func (s *CatalogServer) GetContentTypes(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	var result map[types.ContentTypeId][]string
	s.withCatalog(func(c *catalog.FieldCataloger) error {
		result = c.ContentTypes()
		return nil
	})
	publicHeaders(w, "60")
	return enc.Encode(result)
}

func (s *CatalogServer) GetContentType(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return types.NewCatalogError(types.InvalidArgument, "content type id must be a number", err)
	}
	var fields []types.LightweightField
	s.withCatalog(func(c *catalog.FieldCataloger) error {
		fields = c.ContentTypeFields(types.ContentTypeId(id))
		return nil
	})
	if fields == nil {
		return fmt.Errorf("content type %d: %w", id, common.ErrNotFound)
	}
	publicHeaders(w, "60")
	return enc.Encode(fields)
}

func (s *CatalogServer) GetStatus(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	var result StatusResponse
	s.withCatalog(func(c *catalog.FieldCataloger) error {
		counts := c.Counts()
		result = StatusResponse{
			State:        c.State(),
			System:       counts[types.SystemScope],
			Shared:       counts[types.SharedScope],
			Local:        counts[types.LocalScope],
			ContentTypes: len(c.ContentTypes()),
		}
		return nil
	})
	w.Header().Set("Cache-Control", "no-cache")
	return enc.Encode(result)
}

func (s *CatalogServer) LoadHandler(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	req, err := loadRequestFromRequest(r)
	if err != nil {
		return err
	}
	flags, err := req.ControlFlags()
	if err != nil {
		return err
	}
	result, err := s.Load(r.Context(), req.Names, flags, req.Refresh)
	if err != nil {
		return err
	}
	return enc.Encode(result)
}

func (s *CatalogServer) SaveHandler(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	if err := s.Save(r.Context()); err != nil {
		return err
	}
	log.Println("catalog snapshot saved")
	return enc.Encode(map[string]bool{"saved": true})
}

func (s *CatalogServer) SnapshotHandler(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	w.Header().Set("Cache-Control", "no-cache")
	return enc.Encode(s.Snapshot())
}
