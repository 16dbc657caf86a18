package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersion_Text(t *testing.T) {
	out, _, err := execRoot(t, []string{"version"})
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "tklport ") {
		t.Errorf("unexpected version output %q", out)
	}
	if !strings.Contains(out, "Go version:") {
		t.Errorf("expected Go version line, got %q", out)
	}
}

func TestVersion_Extended(t *testing.T) {
	out, _, err := execRoot(t, []string{"version", "--extended"})
	if err != nil {
		t.Fatalf("version --extended failed: %v", err)
	}
	for _, want := range []string{"Build date:", "Git commit:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestVersion_JSON(t *testing.T) {
	out, _, err := execRoot(t, []string{"version", "--format", "json", "--extended"})
	if err != nil {
		t.Fatalf("version --format json failed: %v\n%s", err, out)
	}
	var v map[string]any
	if json.Unmarshal([]byte(out), &v) != nil {
		t.Fatalf("version output is not valid JSON: %s", out)
	}
	for _, key := range []string{"version", "goVersion", "platform", "gitCommit"} {
		if _, ok := v[key].(string); !ok {
			t.Errorf("expected %s field in JSON", key)
		}
	}
}

func TestVersion_InvalidFormat(t *testing.T) {
	_, _, err := execRoot(t, []string{"version", "--format", "xml"})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
}
