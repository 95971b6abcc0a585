package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestGetFallsBackToToolchainStamp(t *testing.T) {
	orig := readBuildInfo
	defer func() { readBuildInfo = orig }()

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.4.1"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
			},
		}, true
	}

	got := Get()
	if got.Version != "v0.4.1" || got.Commit != "abc123" || got.Date != "2026-03-01T10:00:00Z" {
		t.Errorf("Get() = %+v", got)
	}
	if !strings.Contains(Template(), "version v0.4.1") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestGetPrefersLinkerValues(t *testing.T) {
	orig, origVersion := readBuildInfo, Version
	defer func() { readBuildInfo, Version = orig, origVersion }()

	Version = "v1.0.0"
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}
	if got := Get().Version; got != "v1.0.0" {
		t.Errorf("Version = %q, want v1.0.0", got)
	}
}

func TestGetWithoutBuildInfo(t *testing.T) {
	orig := readBuildInfo
	defer func() { readBuildInfo = orig }()
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	if !strings.HasPrefix(String(), "version: "+Version) {
		t.Errorf("String() = %q", String())
	}
}
