package buildinfo

import (
	"strings"
	"testing"
)

func TestGetKeepsLdflags(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.2.3", "abc123", "2025-01-02T03:04:05Z"
	got := Get()
	if got != (Info{Version: "v1.2.3", Commit: "abc123", Date: "2025-01-02T03:04:05Z"}) {
		t.Errorf("Get() = %+v", got)
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String() = %q", String())
	}
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} v1.2.3 (abc123") {
		t.Errorf("Template() = %q", tmpl)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortRevision() = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("shortRevision(abc) = %q", got)
	}
}
