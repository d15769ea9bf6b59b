package types

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLightweightField_IsBetterThan(t *testing.T) {
	plain := NewLightweightField("a", "A", "text", "")
	withChoices := plain.WithChoices(&DisplayChoices{Entries: []DisplayEntry{{Value: "1"}}})

	assert.True(t, withChoices.IsBetterThan(plain))
	assert.True(t, plain.IsBetterThan(plain))
	assert.True(t, withChoices.IsBetterThan(withChoices))
	assert.False(t, plain.IsBetterThan(withChoices))
}

func TestLightweightField_Compare(t *testing.T) {
	fields := []LightweightField{
		NewLightweightField("b", "B", "text", ""),
		NewLightweightField("a", "Zed", "text", ""),
		NewLightweightField("a", "Ann", "text", "M"),
		NewLightweightField("a", "Ann", "TEXT", "M").WithChoices(&DisplayChoices{}),
	}
	slices.SortStableFunc(fields, func(a, b LightweightField) int { return a.Compare(b) })

	assert.Equal(t, "Ann", fields[0].DisplayName)
	assert.True(t, fields[0].HasChoices())
	assert.Equal(t, "Ann", fields[1].DisplayName)
	assert.Equal(t, "Zed", fields[2].DisplayName)
	assert.Equal(t, "b", fields[3].Name)
}

func TestLightweightField_Clone(t *testing.T) {
	f := NewLightweightField("a", "A", "text", "").WithChoices(&DisplayChoices{Entries: []DisplayEntry{{Value: "1"}}})
	f.ContentTypeIds = []ContentTypeId{1}
	c := f.Clone()
	c.Choices.Entries[0].Value = "2"
	c.ContentTypeIds[0] = 2
	assert.Equal(t, "1", f.Choices.Entries[0].Value)
	assert.Equal(t, ContentTypeId(1), f.ContentTypeIds[0])
	assert.True(t, f.IsDataType("TEXT"))
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope(" Local ")
	assert.NoError(t, err)
	assert.Equal(t, LocalScope, s)
	assert.Equal(t, "shared", SharedScope.String())

	_, err = ParseScope("global")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var u Scope
	assert.NoError(t, u.UnmarshalText([]byte("system")))
	assert.Equal(t, SystemScope, u)
}

func TestParseControlFlags(t *testing.T) {
	f, err := ParseControlFlags("hidden|nochoices")
	assert.NoError(t, err)
	assert.True(t, f.Has(IncludeHidden))
	assert.True(t, f.ExcludesChoices())
	assert.False(t, f.Has(UserSearchable))
	assert.Equal(t, "hidden|nochoices", f.String())

	f, err = ParseControlFlags("")
	assert.NoError(t, err)
	assert.Equal(t, ControlFlags(0), f)

	_, err = ParseControlFlags("hidden,bogus")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCatalogError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("load: %w", NewCatalogError(Unexpected, "bad node", cause))
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.NotErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load: unexpected: bad node: boom", err.Error())
}
