package catalog

import (
	"os"
	"testing"

	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFields(t *testing.T) {
	data, err := os.ReadFile("testdata/catalog.xml")
	require.NoError(t, err)

	parsed, err := decodeFields(data)
	require.NoError(t, err)
	assert.Equal(t, 8, parsed.Len())
	assert.Len(t, parsed[types.SystemScope], 3)
	assert.Len(t, parsed[types.SharedScope], 2)
	assert.Len(t, parsed[types.LocalScope], 3)

	wf := parsed[types.SystemScope][1]
	assert.Equal(t, "sys_workflowid", wf.Name)
	require.True(t, wf.HasChoices())
	assert.Equal(t, "ascending", wf.Choices.SortOrder)
	assert.Equal(t, []types.DisplayEntry{
		{Value: "4", Label: "Standard", Default: true},
		{Value: "5", Label: "Simple"},
	}, wf.Choices.Entries)

	body := parsed[types.LocalScope][0]
	assert.Equal(t, []types.ContentTypeId{311, 312}, body.ContentTypeIds)
	assert.False(t, body.HasChoices())
}

func TestDecodeFields_Malformed(t *testing.T) {
	cases := map[string]string{
		"unknown choice element": `<FieldCatalog><System><SearchField>
			<Field name="a" datatype="text"><DisplayChoices><Option>1</Option></DisplayChoices></Field>
		</SearchField></System></FieldCatalog>`,
		"unknown entry element": `<FieldCatalog><Local><SearchField>
			<Field name="a" datatype="text"><DisplayChoices><DisplayEntry><Value>1</Value><Color>red</Color></DisplayEntry></DisplayChoices></Field>
		</SearchField></Local></FieldCatalog>`,
		"entry without value": `<FieldCatalog><Local><SearchField>
			<Field name="a" datatype="text"><DisplayChoices><DisplayEntry><DisplayLabel>x</DisplayLabel></DisplayEntry></DisplayChoices></Field>
		</SearchField></Local></FieldCatalog>`,
		"field without name": `<FieldCatalog><Shared><SearchField><Field datatype="text"/></SearchField></Shared></FieldCatalog>`,
		"bad content type":   `<FieldCatalog><Local><SearchField><Field name="a" datatype="text" contentTypeId="x"/></SearchField></Local></FieldCatalog>`,
		"truncated":          `<FieldCatalog><Local><SearchField>`,
		"empty":              ``,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeFields([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrUnexpected)
		})
	}
}

func TestDecodeFields_EmptySections(t *testing.T) {
	parsed, err := decodeFields([]byte(`<FieldCatalog><System/><Local><SearchField/></Local></FieldCatalog>`))
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.Len())
}
