package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/tklport/pkg/exitcode"
)

func TestAbilities_JSON(t *testing.T) {
	s := newSDK(t)

	out, _, err := execRoot(t, []string{"abilities", "--format", "json", s.platform})
	require.NoError(t, err)

	var view abilitiesView
	require.NoError(t, json.Unmarshal([]byte(out), &view), out)
	assert.Equal(t, "LN", view.Platform)
	assert.True(t, view.HostedOS)
	assert.Equal(t, "linux", view.Variant)
	assert.Equal(t, map[string]string{"OPERATING_SYSTEM": "100", "ENABLE_WIFI": "y"}, view.Abilities)
	assert.ElementsMatch(t, []string{"tkl_asymmetrical.c", "tkl_symmetry.c", "tkl_hash.c"}, view.Gated)
	assert.Contains(t, view.Scaffold, "Makefile")
}

func TestAbilities_Text(t *testing.T) {
	s := newSDK(t)

	out, _, err := execRoot(t, []string{"abilities", "--template-mode", "bsp", s.platform})
	require.NoError(t, err)
	assert.Contains(t, out, "platform: LN")
	assert.Contains(t, out, "template variant: bsp")
	assert.Contains(t, out, "ENABLE_WIFI")
	assert.NotContains(t, out, "VENDOR", "empty quoted values are dropped")
}

func TestAbilities_Missing(t *testing.T) {
	_, _, err := execRoot(t, []string{"abilities", filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.Equal(t, exitcode.PlatformNotFound, exitCodeFor(err))
}

func TestAbilities_RequiresDir(t *testing.T) {
	_, _, err := execRoot(t, []string{"abilities"})
	assert.Error(t, err)
}
