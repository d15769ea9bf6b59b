package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBoolSetting(t *testing.T) {
	assert.False(t, parseBoolSetting("LOAD_ON_START", "false", true))
	assert.True(t, parseBoolSetting("LOAD_ON_START", "1", false))
	assert.True(t, parseBoolSetting("LOAD_ON_START", "yes", true), "invalid values keep the default")
	assert.False(t, parseBoolSetting("LOAD_ON_START", "", false))
}
