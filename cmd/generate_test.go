package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/tklport/pkg/exitcode"
)

type sdkLayout struct {
	root     string
	platform string
}

func (s sdkLayout) write(t *testing.T, rel, content string) {
	t.Helper()
	p := filepath.Join(s.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// newSDK creates a hosted platform "platform/LN" and its template root.
func newSDK(t *testing.T) sdkLayout {
	t.Helper()
	s := sdkLayout{root: t.TempDir()}
	s.platform = filepath.Join(s.root, "platform", "LN")

	s.write(t, "platform/LN/default.config", "CONFIG_OPERATING_SYSTEM=100\nCONFIG_ENABLE_WIFI=y\nCONFIG_VENDOR=\"\"\n")
	s.write(t, "platform/LN/tuyaos/tuyaos_adapter/include/wifi/tkl_wifi.h",
		"OPERATE_RET tkl_wifi_init(WIFI_EVENT_CB cb);\nUINT32_T tkl_wifi_get_count(VOID_T);\n")
	for _, name := range []string{"platform_config.cmake", "toolchain_file.cmake", "Kconfig", "build_example.sh", "linux/Makefile"} {
		s.write(t, "tools/porting/template/"+name, "# "+name+"\n")
	}
	return s
}

type jsonReport struct {
	Totals  map[string]int `json:"totals"`
	Targets []struct {
		Status   string `json:"status"`
		HostedOS bool   `json:"hosted_os"`
		Error    string `json:"error"`
		Scaffold []struct {
			Target string `json:"target"`
			Action string `json:"action"`
		} `json:"scaffold"`
		Files []struct {
			File      string `json:"file"`
			Action    string `json:"action"`
			Unchanged bool   `json:"unchanged"`
			Added     int    `json:"added"`
			Diff      string `json:"diff"`
		} `json:"files"`
	} `json:"targets"`
}

func decodeReport(t *testing.T, out string) jsonReport {
	t.Helper()
	var rep jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	return rep
}

func TestGenerate_JSONReport(t *testing.T) {
	s := newSDK(t)

	out, _, err := execRoot(t, []string{"generate", "--format", "json", s.platform})
	require.NoError(t, err)

	rep := decodeReport(t, out)
	require.Len(t, rep.Targets, 1)
	target := rep.Targets[0]
	assert.Equal(t, "ok", target.Status)
	assert.True(t, target.HostedOS)
	require.Len(t, target.Files, 1)
	assert.Equal(t, "tkl_wifi.c", target.Files[0].File)
	assert.Equal(t, "created", target.Files[0].Action)
	assert.Equal(t, 2, target.Files[0].Added)
	assert.Equal(t, 1, rep.Totals["created"])

	for _, sc := range target.Scaffold {
		assert.Equal(t, "copied", sc.Action, sc.Target)
	}
	makefile, err := os.ReadFile(filepath.Join(s.platform, "Makefile"))
	require.NoError(t, err)
	assert.Equal(t, "# linux/Makefile\n", string(makefile))

	src, err := os.ReadFile(filepath.Join(s.platform, "tuyaos", "tuyaos_adapter", "src", "tkl_wifi.c"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "OPERATE_RET tkl_wifi_init(WIFI_EVENT_CB cb)\n{\n")

	// a second run leaves everything in place
	out, _, err = execRoot(t, []string{"generate", "--format", "json", s.platform})
	require.NoError(t, err)
	rep = decodeReport(t, out)
	assert.Equal(t, "merged", rep.Targets[0].Files[0].Action)
	assert.True(t, rep.Targets[0].Files[0].Unchanged)
}

func TestGenerate_DryRunDiff(t *testing.T) {
	s := newSDK(t)

	out, _, err := execRoot(t, []string{"generate", "--dry-run", "--diff", "--format", "json", s.platform})
	require.NoError(t, err)

	rep := decodeReport(t, out)
	require.Len(t, rep.Targets[0].Files, 1)
	assert.Contains(t, rep.Targets[0].Files[0].Diff, "+++ b/tuyaos/tuyaos_adapter/src/tkl_wifi.c")

	_, err = os.Stat(filepath.Join(s.platform, "tuyaos", "tuyaos_adapter", "src", "tkl_wifi.c"))
	assert.True(t, os.IsNotExist(err), "dry run must not write adapters")
	_, err = os.Stat(filepath.Join(s.platform, "Kconfig"))
	assert.True(t, os.IsNotExist(err), "dry run must not scaffold")
}

func TestGenerate_TextReport(t *testing.T) {
	s := newSDK(t)

	out, _, err := execRoot(t, []string{"generate", s.platform})
	require.NoError(t, err)
	assert.Contains(t, out, "LN [ok]")
	assert.Contains(t, out, "tkl_wifi.c")
	assert.Contains(t, out, "created")
}

func TestGenerate_ExcludeFlag(t *testing.T) {
	s := newSDK(t)

	out, _, err := execRoot(t, []string{"generate", "--format", "json", "--exclude", "wifi=wifi", s.platform})
	require.NoError(t, err)
	rep := decodeReport(t, out)
	assert.Empty(t, rep.Targets[0].Files)
}

func TestGenerate_MissingPlatform(t *testing.T) {
	s := newSDK(t)
	missing := filepath.Join(s.root, "platform", "NOPE")

	out, _, err := execRoot(t, []string{"generate", "--format", "json", s.platform, missing})
	require.Error(t, err)
	assert.Equal(t, exitcode.PlatformNotFound, exitCodeFor(err))
	assert.Contains(t, err.Error(), filepath.Join(missing, "default.config"))

	rep := decodeReport(t, out)
	require.Len(t, rep.Targets, 2)
	assert.Equal(t, "ok", rep.Targets[0].Status, "other platforms still run")
	assert.Equal(t, "not_found", rep.Targets[1].Status)
}

func TestGenerate_InvalidFlags(t *testing.T) {
	s := newSDK(t)
	tests := [][]string{
		{"generate", "--format", "xml", s.platform},
		{"generate", "--template-mode", "vendor", s.platform},
		{"generate", "--exclude", "broken", s.platform},
	}

	for _, args := range tests {
		t.Run(strings.Join(args[1:3], " "), func(t *testing.T) {
			_, _, err := execRoot(t, args)
			require.Error(t, err)
			assert.Equal(t, exitcode.ConfigError, exitCodeFor(err))
		})
	}
}

func TestGenerate_ConfigFile(t *testing.T) {
	s := newSDK(t)
	cfg := filepath.Join(s.root, "tklport.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("report:\n  format: json\ntemplates:\n  mode: none\n"), 0o644))

	out, _, err := execRoot(t, []string{"--config", cfg, "generate", s.platform})
	require.NoError(t, err)
	rep := decodeReport(t, out)
	assert.Equal(t, "created", rep.Targets[0].Files[0].Action)
}

func TestScaffold_Only(t *testing.T) {
	s := newSDK(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.platform, "Kconfig"), []byte("config CUSTOM\n"), 0o644))

	out, _, err := execRoot(t, []string{"scaffold", "--format", "json", s.platform})
	require.NoError(t, err)

	rep := decodeReport(t, out)
	actions := map[string]string{}
	for _, sc := range rep.Targets[0].Scaffold {
		actions[sc.Target] = sc.Action
	}
	assert.Equal(t, "exists", actions["Kconfig"])
	assert.Equal(t, "copied", actions["Makefile"])
	assert.Empty(t, rep.Targets[0].Files)

	kconfig, err := os.ReadFile(filepath.Join(s.platform, "Kconfig"))
	require.NoError(t, err)
	assert.Equal(t, "config CUSTOM\n", string(kconfig))

	_, err = os.Stat(filepath.Join(s.platform, "tuyaos", "tuyaos_adapter", "src"))
	assert.True(t, os.IsNotExist(err), "scaffold does not generate adapters")
}
