package messaging

import "github.com/matst80/slask-catalog/pkg/types"

type ChangeTopic string

const (
	CatalogRefresh ChangeTopic = "catalog_refresh"
	CatalogChanged ChangeTopic = "catalog_changed"
)

// RefreshRequest asks catalog services to load fields. Empty Names means
// all fields.
type RefreshRequest struct {
	Names   []string           `json:"names,omitempty"`
	Flags   types.ControlFlags `json:"flags"`
	Refresh bool               `json:"refresh"`
}

// CatalogChange is published after a load that added or replaced fields.
// Flags are the control flags of that load.
type CatalogChange struct {
	Origin   string             `json:"origin"`
	Names    []string           `json:"names,omitempty"`
	Flags    types.ControlFlags `json:"flags"`
	Added    int                `json:"added"`
	Replaced int                `json:"replaced"`
}

// RefreshRequest loads the changed names with the flags they were loaded with.
func (c CatalogChange) RefreshRequest() RefreshRequest {
	return RefreshRequest{Names: c.Names, Flags: c.Flags}
}
