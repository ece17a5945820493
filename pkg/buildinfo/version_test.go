package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	if !Get().Dev() {
		t.Errorf("Get() = %+v, want dev build", Get())
	}

	Version, Commit, Date = "v0.3.0", "abc1234", "2026-01-02T03:04:05Z"
	got := Get()
	if got.Dev() || got.Version != "v0.3.0" || got.Commit != "abc1234" || got.Date != "2026-01-02T03:04:05Z" {
		t.Errorf("Get() = %+v", got)
	}
	if tmpl := Template(); !strings.Contains(tmpl, "v0.3.0") || !strings.Contains(tmpl, "abc1234") {
		t.Errorf("Template() = %q, want version and commit", tmpl)
	}
}
