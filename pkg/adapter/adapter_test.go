package adapter

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/tklport/pkg/ability"
	"github.com/fulmenhq/tklport/pkg/merge"
	"github.com/fulmenhq/tklport/pkg/porterr"
	"github.com/fulmenhq/tklport/pkg/snapshot"
)

const wifiHeader = `#ifndef __TKL_WIFI_H__
#define __TKL_WIFI_H__

#include "tuya_cloud_types.h"

OPERATE_RET tkl_wifi_init(WIFI_EVENT_CB cb);

VOID_T *tkl_wifi_get_ctx(VOID_T);

VOID_T tkl_wifi_release(VOID_T);

UINT8_T tkl_wifi_get_channel(VOID_T);

#endif
`

func TestDefaultReturn(t *testing.T) {
	tests := []struct {
		tag    snapshot.ReturnTag
		expr   string
		hasRet bool
	}{
		{snapshot.TagOperateRet, "OPRT_NOT_SUPPORTED", true},
		{snapshot.TagVoidPtr, "NULL", true},
		{snapshot.TagVoidTPtr, "NULL", true},
		{snapshot.TagVoid, "", false},
		{snapshot.TagVoidT, "", false},
		{snapshot.TagUint64, "0", true},
		{snapshot.TagInt64, "0", true},
		{snapshot.TagUint32, "0", true},
		{snapshot.TagInt32, "0", true},
		{snapshot.TagInt, "0", true},
		{snapshot.TagUint, "0", true},
		{snapshot.TagUint16, "0", true},
		{snapshot.TagInt16, "0", true},
		{snapshot.TagUint8, "0", true},
		{snapshot.TagInt8, "0", true},
		{snapshot.TagChar, "0", true},
		{snapshot.TagSchar, "0", true},
		{snapshot.ReturnTag("BOOL_T"), "0", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			expr, ok := DefaultReturn(tt.tag)
			assert.Equal(t, tt.expr, expr)
			assert.Equal(t, tt.hasRet, ok)
		})
	}
}

func TestStubBody(t *testing.T) {
	assert.Equal(t, snapshot.FuncBegin+"\n    return OPRT_NOT_SUPPORTED;\n"+snapshot.FuncEnd+"\n", StubBody(snapshot.TagOperateRet))
	assert.Equal(t, snapshot.FuncBegin+"\n"+snapshot.FuncEnd+"\n", StubBody(snapshot.TagVoidT))
}

func TestAllowed(t *testing.T) {
	none := ability.New(nil)
	rsa := ability.New(map[string]string{ability.KeyRSA: "y"})
	md5 := ability.New(map[string]string{ability.KeyMD5: "y"})

	assert.False(t, Allowed(DefaultGates, "tkl_asymmetrical.c", none))
	assert.True(t, Allowed(DefaultGates, "tkl_asymmetrical.c", rsa))
	assert.False(t, Allowed(DefaultGates, "tkl_symmetry.c", rsa))
	assert.True(t, Allowed(DefaultGates, "tkl_hash.c", md5))
	assert.False(t, Allowed(DefaultGates, "tkl_hash.c", rsa))
	assert.True(t, Allowed(DefaultGates, "tkl_wifi.c", none))
}

func TestRender(t *testing.T) {
	f := &snapshot.File{
		Name:       "tkl_wifi.c",
		Header:     "tkl_wifi.h",
		UserRegion: merge.DefaultUserRegion("tkl_wifi.h"),
		Functions: []snapshot.Function{
			{Name: "tkl_wifi_init", Signature: "OPERATE_RET tkl_wifi_init(WIFI_EVENT_CB cb)", Return: snapshot.TagOperateRet, IsNew: true},
			{Name: "tkl_wifi_old", Signature: merge.Retire("VOID_T tkl_wifi_old(VOID_T)"), Return: snapshot.TagVoidT, Body: "    vendor_old();\n", Retired: true},
		},
	}

	out, err := Render(f)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "@file tkl_wifi.c")
	assert.Contains(t, s, snapshot.UserBegin+"\n#include \"tkl_wifi.h\"\n#include \"tuya_error_code.h\"\n"+snapshot.UserEnd+"\n\n")
	assert.Contains(t, s, "OPERATE_RET tkl_wifi_init(WIFI_EVENT_CB cb)\n{\n"+snapshot.FuncBegin+"\n    return OPRT_NOT_SUPPORTED;\n"+snapshot.FuncEnd+"\n}\n\n")
	assert.True(t, strings.HasSuffix(s, snapshot.RetiredAnnotation+"VOID_T tkl_wifi_old(VOID_T)\n{\n    vendor_old();\n}\n\n"))
	assert.Less(t, strings.Index(s, "tkl_wifi_init"), strings.Index(s, "tkl_wifi_old"))
}

func generateOnce(t *testing.T, g *Generator, target billy.Filesystem, header []byte, abilities ability.Map) Result {
	t.Helper()
	current, err := snapshot.ParseHeader("tkl_wifi.h", header)
	require.NoError(t, err)
	legacy, err := snapshot.LoadSource(target, SrcDir+"/tkl_wifi.c")
	require.NoError(t, err)
	merged, err := merge.Merge(current, legacy)
	require.NoError(t, err)
	res, err := g.Generate(merged, abilities)
	require.NoError(t, err)
	return res
}

func TestGenerate_Idempotent(t *testing.T) {
	target := memfs.New()
	g, err := NewGenerator(Config{Target: target})
	require.NoError(t, err)

	first := generateOnce(t, g, target, []byte(wifiHeader), ability.New(nil))
	assert.Equal(t, ActionCreated, first.Action)
	assert.Equal(t, 4, first.Added)
	assert.False(t, first.Unchanged)

	written, err := util.ReadFile(target, first.Path)
	require.NoError(t, err)

	second := generateOnce(t, g, target, []byte(wifiHeader), ability.New(nil))
	assert.Equal(t, ActionMerged, second.Action)
	assert.True(t, second.Unchanged)
	assert.Equal(t, 4, second.Kept)

	again, err := util.ReadFile(target, first.Path)
	require.NoError(t, err)
	assert.Equal(t, string(written), string(again))

	_, err = target.Stat(IncludeDir)
	assert.NoError(t, err, "include directory created on first write")
}

func TestGenerate_PreservesEdits(t *testing.T) {
	target := memfs.New()
	g, err := NewGenerator(Config{Target: target})
	require.NoError(t, err)
	res := generateOnce(t, g, target, []byte(wifiHeader), ability.New(nil))

	data, err := util.ReadFile(target, res.Path)
	require.NoError(t, err)
	edited := strings.Replace(string(data), "#include \"tuya_error_code.h\"\n", "#include \"tuya_error_code.h\"\n#include \"vendor_wifi.h\"\n", 1)
	edited = strings.Replace(edited, "    return OPRT_NOT_SUPPORTED;\n", "    return vendor_wifi_init(cb);\n", 1)
	require.NoError(t, util.WriteFile(target, res.Path, []byte(edited), 0o644))

	// The kernel drops tkl_wifi_release and adds tkl_wifi_scan.
	header := strings.Replace(wifiHeader, "VOID_T tkl_wifi_release(VOID_T);", "OPERATE_RET tkl_wifi_scan(CHAR_T *ssid);", 1)
	res = generateOnce(t, g, target, []byte(header), ability.New(nil))
	assert.Equal(t, ActionMerged, res.Action)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Retired)

	data, err = util.ReadFile(target, res.Path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "#include \"vendor_wifi.h\"\n")
	assert.Contains(t, s, "    return vendor_wifi_init(cb);\n")
	assert.Contains(t, s, "OPERATE_RET tkl_wifi_scan(CHAR_T *ssid)\n{\n")
	assert.Contains(t, s, snapshot.RetiredAnnotation+"VOID_T tkl_wifi_release(VOID_T)\n{\n")

	// A third run keeps the retired function annotated exactly once.
	res = generateOnce(t, g, target, []byte(header), ability.New(nil))
	assert.True(t, res.Unchanged)
	data, _ = util.ReadFile(target, res.Path)
	assert.Equal(t, 1, strings.Count(string(data), snapshot.RetiredAnnotation))
}

func TestGenerate_Gated(t *testing.T) {
	target := memfs.New()
	g, err := NewGenerator(Config{Target: target})
	require.NoError(t, err)

	f := &snapshot.File{Name: "tkl_hash.c", Header: "tkl_hash.h", IsNewFile: true}
	res, err := g.Generate(f, ability.New(map[string]string{ability.KeyAES: "y"}))
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, res.Action)

	_, err = target.Stat(SrcDir + "/tkl_hash.c")
	assert.Error(t, err, "gated file must not be written")
}

func TestGenerate_TemplatePrecedence(t *testing.T) {
	target := memfs.New()
	templates := memfs.New()
	require.NoError(t, util.WriteFile(templates, "tkl_wifi.c", []byte("/* template */\n"), 0o644))

	g, err := NewGenerator(Config{Target: target, Templates: templates})
	require.NoError(t, err)

	merged, err := merge.Merge(&snapshot.File{Name: "tkl_wifi.c", Header: "tkl_wifi.h"}, nil)
	require.NoError(t, err)
	res, err := g.Generate(merged, ability.New(nil))
	require.NoError(t, err)
	assert.Equal(t, ActionTemplate, res.Action)
	data, _ := util.ReadFile(target, res.Path)
	assert.Equal(t, "/* template */\n", string(data))

	// Existing files are merged, never replaced by the template.
	merged.IsNewFile = false
	res, err = g.Generate(merged, ability.New(nil))
	require.NoError(t, err)
	assert.Equal(t, ActionMerged, res.Action)

	// No template for this file: rendered.
	other, err := merge.Merge(&snapshot.File{Name: "tkl_bt.c", Header: "tkl_bt.h"}, nil)
	require.NoError(t, err)
	res, err = g.Generate(other, ability.New(nil))
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
}

func TestGenerate_DryRunAndDiff(t *testing.T) {
	target := memfs.New()
	g, err := NewGenerator(Config{Target: target, DryRun: true, Diff: true})
	require.NoError(t, err)

	merged, err := merge.Merge(&snapshot.File{
		Name:      "tkl_wifi.c",
		Header:    "tkl_wifi.h",
		Functions: []snapshot.Function{{Name: "tkl_wifi_init", Signature: "OPERATE_RET tkl_wifi_init(VOID_T)", Return: snapshot.TagOperateRet}},
	}, nil)
	require.NoError(t, err)

	res, err := g.Generate(merged, ability.New(nil))
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
	assert.Contains(t, res.Diff, "--- /dev/null")
	assert.Contains(t, res.Diff, "+++ b/"+SrcDir+"/tkl_wifi.c")
	assert.Contains(t, res.Diff, "+OPERATE_RET tkl_wifi_init(VOID_T)")

	_, err = target.Stat(res.Path)
	assert.Error(t, err, "dry run must not write")
}

type failingRenameFS struct {
	billy.Filesystem
}

func (failingRenameFS) Rename(string, string) error {
	return errors.New("read-only file system")
}

func TestGenerate_WriteFailure(t *testing.T) {
	mem := memfs.New()
	g, err := NewGenerator(Config{Target: failingRenameFS{mem}})
	require.NoError(t, err)

	merged, err := merge.Merge(&snapshot.File{Name: "tkl_wifi.c", Header: "tkl_wifi.h"}, nil)
	require.NoError(t, err)

	res, err := g.Generate(merged, ability.New(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, porterr.ErrWriteFailure))
	assert.Equal(t, ActionFailed, res.Action)

	entries, err := mem.ReadDir(SrcDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file removed after failure")
}

func TestNewGenerator_RequiresTarget(t *testing.T) {
	_, err := NewGenerator(Config{})
	assert.Error(t, err)
}
