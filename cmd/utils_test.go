package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnumValue(t *testing.T) {
	e := NewEnumValue("web", map[string]string{
		"web":        "es module",
		"no-modules": "classic script",
	})

	require.Equal(t, "web", e.Value())
	require.NoError(t, e.Set("no-modules"))
	require.Equal(t, "no-modules", e.Value())
	require.ErrorContains(t, e.Set("bundler"), "must be one of")
	require.Equal(t, "no-modules", e.Value(), "rejected Set must not change the value")
	require.Equal(t, []string{"no-modules", "web"}, e.AllowedKeys())
}

func TestEnumValuePanicsOnBadDefault(t *testing.T) {
	require.Panics(t, func() {
		NewEnumValue("nope", map[string]string{"web": ""})
	})
}
