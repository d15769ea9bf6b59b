package types

import "strings"

// ControlFlags restrict what the field cataloger service returns.
type ControlFlags uint

const (
	IncludeHidden ControlFlags = 1 << iota
	IncludeResultOnly
	ExcludeChoices
	UserSearchable
)

var flagNames = []struct {
	flag ControlFlags
	name string
}{
	{IncludeHidden, "hidden"},
	{IncludeResultOnly, "resultonly"},
	{ExcludeChoices, "nochoices"},
	{UserSearchable, "usersearchable"},
}

func (f ControlFlags) Has(flag ControlFlags) bool {
	return f&flag == flag
}

func (f ControlFlags) ExcludesChoices() bool {
	return f.Has(ExcludeChoices)
}

func (f ControlFlags) String() string {
	parts := make([]string, 0, len(flagNames))
	for _, n := range flagNames {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseControlFlags accepts names joined by "|" or ",".
func ParseControlFlags(value string) (ControlFlags, error) {
	var ret ControlFlags
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		found := false
		for _, n := range flagNames {
			if n.name == part {
				ret |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, NewCatalogError(InvalidArgument, "unknown control flag "+part, nil)
		}
	}
	return ret, nil
}
