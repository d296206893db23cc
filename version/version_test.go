package version

import (
	"strings"
	"testing"
)

func restore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() { Version, GitCommit, BuildTime = v, c, b }
}

func TestGet_Defaults(t *testing.T) {
	defer restore()()
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev must not be a release")
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should come from build info")
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	defer restore()()
	Version, GitCommit, BuildTime = "v1.2.0", "0123456789abcdef", "2026-01-02T03:04:05Z"

	info := Get()
	if info.GitCommit != "0123456" {
		t.Errorf("GitCommit = %q, want truncated to 7", info.GitCommit)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
	if !info.IsDirty && !info.IsRelease {
		t.Error("a clean tagged build should be a release")
	}
}

func TestInfo_Strings(t *testing.T) {
	tests := []struct {
		info      Info
		wantShort string
		wantFull  string
	}{
		{Info{Version: "dev"}, "dev", "dev"},
		{Info{Version: "v1", GitCommit: "abc1234"}, "v1-abc1234", "v1-abc1234"},
		{Info{Version: "v1", GitCommit: "abc1234", IsDirty: true, BuildTime: "T"}, "v1-abc1234-dirty", "v1-abc1234-dirty (built T)"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.wantShort {
			t.Errorf("Short() = %q, want %q", got, tt.wantShort)
		}
		if got := tt.info.String(); got != tt.wantFull {
			t.Errorf("String() = %q, want %q", got, tt.wantFull)
		}
	}
}

func TestUserAgent(t *testing.T) {
	defer restore()()
	Version, GitCommit = "v2.0.0", "feedbee"
	if got := UserAgent("fluency"); !strings.HasPrefix(got, "fluency/v2.0.0-feedbee") {
		t.Errorf("UserAgent = %q", got)
	}
}
