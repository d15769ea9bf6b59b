package types

import (
	"fmt"
	"strings"
)

type Scope uint

const (
	SystemScope Scope = iota + 1
	SharedScope
	LocalScope
)

// LookupOrder is the precedence used when resolving a field by name.
var LookupOrder = []Scope{LocalScope, SharedScope, SystemScope}

func (s Scope) String() string {
	switch s {
	case SystemScope:
		return "system"
	case SharedScope:
		return "shared"
	case LocalScope:
		return "local"
	}
	return fmt.Sprintf("scope(%d)", uint(s))
}

func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scope) UnmarshalText(b []byte) error {
	p, err := ParseScope(string(b))
	if err != nil {
		return err
	}
	*s = p
	return nil
}

func ParseScope(value string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "system":
		return SystemScope, nil
	case "shared":
		return SharedScope, nil
	case "local":
		return LocalScope, nil
	}
	return 0, NewCatalogError(InvalidArgument, fmt.Sprintf("unknown scope %q", value), nil)
}
