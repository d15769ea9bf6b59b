package types

import (
	"cmp"
	"slices"
	"strings"
)

type ContentTypeId int

type DisplayEntry struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Default bool   `json:"default,omitempty"`
}

// DisplayChoices is the enumerated set of values a field accepts.
type DisplayChoices struct {
	SortOrder string         `json:"sortOrder,omitempty"`
	Entries   []DisplayEntry `json:"entries"`
}

func (c *DisplayChoices) Clone() *DisplayChoices {
	if c == nil {
		return nil
	}
	return &DisplayChoices{
		SortOrder: c.SortOrder,
		Entries:   slices.Clone(c.Entries),
	}
}

func (c *DisplayChoices) Labels() map[string]string {
	ret := make(map[string]string, len(c.Entries))
	for _, e := range c.Entries {
		ret[e.Value] = e.Label
	}
	return ret
}

// LightweightField is the cataloged metadata of one content editor field.
// Name is the key within a scope.
type LightweightField struct {
	Name           string          `json:"name"`
	DisplayName    string          `json:"displayName"`
	DataType       string          `json:"dataType"`
	Mnemonic       string          `json:"mnemonic,omitempty"`
	Choices        *DisplayChoices `json:"choices,omitempty"`
	ContentTypeIds []ContentTypeId `json:"contentTypeIds,omitempty"`
}

func NewLightweightField(name, displayName, dataType, mnemonic string) LightweightField {
	return LightweightField{
		Name:        name,
		DisplayName: displayName,
		DataType:    dataType,
		Mnemonic:    mnemonic,
	}
}

func (f LightweightField) HasChoices() bool {
	return f.Choices != nil
}

func (f LightweightField) WithChoices(choices *DisplayChoices) LightweightField {
	f.Choices = choices
	return f
}

func (f LightweightField) IsDataType(dataType string) bool {
	return strings.EqualFold(f.DataType, dataType)
}

func (f LightweightField) Clone() LightweightField {
	f.Choices = f.Choices.Clone()
	f.ContentTypeIds = slices.Clone(f.ContentTypeIds)
	return f
}

// Compare orders fields by name, display name, data type and mnemonic.
// Among otherwise equal entries the one carrying choices sorts first.
func (f LightweightField) Compare(other LightweightField) int {
	return cmp.Or(
		cmp.Compare(f.Name, other.Name),
		cmp.Compare(f.DisplayName, other.DisplayName),
		cmp.Compare(strings.ToLower(f.DataType), strings.ToLower(other.DataType)),
		cmp.Compare(f.Mnemonic, other.Mnemonic),
		compareChoices(f, other),
	)
}

func compareChoices(a, b LightweightField) int {
	switch {
	case a.HasChoices() == b.HasChoices():
		return 0
	case a.HasChoices():
		return -1
	default:
		return 1
	}
}

// IsBetterThan reports whether f may replace current. A field is never
// downgraded from having choices to having none.
func (f LightweightField) IsBetterThan(current LightweightField) bool {
	return !(current.HasChoices() && !f.HasChoices())
}
