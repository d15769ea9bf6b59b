package catalog

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/matst80/slask-catalog/pkg/types"
)

// fieldDocument is the XML returned by the field cataloger service. The
// root element name is not checked.
type fieldDocument struct {
	System *scopeSection `xml:"System"`
	Shared *scopeSection `xml:"Shared"`
	Local  *scopeSection `xml:"Local"`
}

type scopeSection struct {
	SearchFields []searchField `xml:"SearchField"`
}

type searchField struct {
	Fields []fieldElement `xml:"Field"`
}

type fieldElement struct {
	Name          string          `xml:"name,attr"`
	DataType      string          `xml:"datatype,attr"`
	DisplayName   string          `xml:"displayName,attr"`
	Mnemonic      string          `xml:"mnemonic,attr"`
	ContentTypeId string          `xml:"contentTypeId,attr"`
	Choices       *choicesElement `xml:"DisplayChoices"`
}

type choicesElement struct {
	types.DisplayChoices
}

func unexpectedNode(parent string, name xml.Name) error {
	return types.NewCatalogError(types.Unexpected, fmt.Sprintf("unexpected element <%s> in <%s>", name.Local, parent), nil)
}

func (c *choicesElement) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "sortOrder" {
			c.SortOrder = a.Value
		}
	}
	c.Entries = []types.DisplayEntry{}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "DisplayEntry" {
				return unexpectedNode(start.Name.Local, t.Name)
			}
			var e entryElement
			if err := d.DecodeElement(&e, &t); err != nil {
				return err
			}
			c.Entries = append(c.Entries, e.DisplayEntry)
		case xml.EndElement:
			return nil
		}
	}
}

type entryElement struct {
	types.DisplayEntry
}

func (e *entryElement) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "default" {
			e.Default = a.Value == "yes" || a.Value == "true"
		}
	}
	hasValue := false
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var text string
			switch t.Name.Local {
			case "Value":
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				e.Value = text
				hasValue = true
			case "DisplayLabel":
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				e.Label = text
			default:
				return unexpectedNode(start.Name.Local, t.Name)
			}
		case xml.EndElement:
			if !hasValue {
				return types.NewCatalogError(types.Unexpected, "display entry without value", nil)
			}
			return nil
		}
	}
}

// parsedFields holds every raw entry of a document per scope, duplicates
// included.
type parsedFields map[types.Scope][]types.LightweightField

func (p parsedFields) Len() int {
	n := 0
	for _, fields := range p {
		n += len(fields)
	}
	return n
}

func decodeFields(data []byte) (parsedFields, error) {
	doc := fieldDocument{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, types.NewCatalogError(types.Unexpected, "decode field catalog", err)
	}
	ret := parsedFields{}
	sections := []struct {
		scope   types.Scope
		section *scopeSection
	}{
		{types.SystemScope, doc.System},
		{types.SharedScope, doc.Shared},
		{types.LocalScope, doc.Local},
	}
	for _, s := range sections {
		if s.section == nil {
			continue
		}
		for _, sf := range s.section.SearchFields {
			for _, el := range sf.Fields {
				f, err := el.toField()
				if err != nil {
					return nil, err
				}
				ret[s.scope] = append(ret[s.scope], f)
			}
		}
	}
	return ret, nil
}

func (el fieldElement) toField() (types.LightweightField, error) {
	if el.Name == "" {
		return types.LightweightField{}, types.NewCatalogError(types.Unexpected, "field without name", nil)
	}
	f := types.NewLightweightField(el.Name, el.DisplayName, el.DataType, el.Mnemonic)
	if el.Choices != nil {
		choices := el.Choices.DisplayChoices
		f = f.WithChoices(&choices)
	}
	ids, err := parseContentTypeIds(el.ContentTypeId)
	if err != nil {
		return f, types.NewCatalogError(types.Unexpected, fmt.Sprintf("field %s", el.Name), err)
	}
	f.ContentTypeIds = ids
	return f, nil
}

func parseContentTypeIds(value string) ([]types.ContentTypeId, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ret := make([]types.ContentTypeId, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("content type id %q: %w", p, err)
		}
		ret = append(ret, types.ContentTypeId(id))
	}
	return ret, nil
}
