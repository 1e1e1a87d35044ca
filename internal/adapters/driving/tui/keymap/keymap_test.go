package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("up", km.Up))
	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("", km.Quit))
}

func TestDefaultKeyMap_BindingsHaveHelp(t *testing.T) {
	for _, group := range DefaultKeyMap().FullHelp() {
		for _, binding := range group {
			assert.NotEmpty(t, binding.Help().Key)
			assert.NotEmpty(t, binding.Help().Desc)
		}
	}
}

func TestReaderHelp_IsSubsetOfBindings(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ReaderHelp()
	assert.NotEmpty(t, help)
	for _, binding := range help {
		assert.NotEmpty(t, binding.Keys())
	}
}
