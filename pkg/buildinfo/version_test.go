package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	defer func() { Version, Commit, Date = saved[0], saved[1], saved[2] }()

	tests := []struct {
		name                  string
		version, commit, date string
		info                  debug.BuildInfo
		want                  [3]string
	}{
		{
			name:    "fills defaults",
			version: "dev", commit: "none", date: "unknown",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				},
			},
			want: [3]string{"v0.3.1", "abc123", "2026-01-02T03:04:05Z"},
		},
		{
			name:    "ldflags win",
			version: "v1.0.0", commit: "fff", date: "today",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			want: [3]string{"v1.0.0", "fff", "today"},
		},
		{
			name:    "devel build",
			version: "dev", commit: "none", date: "unknown",
			info: debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: [3]string{"dev", "none", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, tt.commit, tt.date
			fromBuildInfo(&tt.info)
			if got := [3]string{Version, Commit, Date}; got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "commit: ") {
		t.Errorf("String() = %q", String())
	}
}
