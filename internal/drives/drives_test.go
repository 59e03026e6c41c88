package drives

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestMountPointOf(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	list := []Drive{
		{Path: "/"},
		{Path: "/media/usb"},
		{Path: "/media/usb/nested"},
		{Path: "/home"},
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "root", path: "/etc/hosts", want: "/"},
		{name: "exact mount", path: "/home", want: "/home"},
		{name: "deepest mount wins", path: "/media/usb/nested/file", want: "/media/usb/nested"},
		{name: "shared prefix is not a parent", path: "/media/usb2/file", want: "/"},
		{name: "homework is not under home", path: "/homework", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MountPointOf(list, tt.path)
			if !ok {
				t.Fatalf("MountPointOf(%q) found nothing", tt.path)
			}
			if got.Path != tt.want {
				t.Errorf("MountPointOf(%q) = %q, want %q", tt.path, got.Path, tt.want)
			}
		})
	}
}

func TestMountPointOfNoMatch(t *testing.T) {
	if _, ok := MountPointOf([]Drive{{Path: filepath.FromSlash("/mnt/a")}}, filepath.FromSlash("/srv/b")); ok {
		t.Error("expected no match")
	}
}

func TestList(t *testing.T) {
	list, err := List()
	if err != nil {
		t.Skipf("mount table not readable here: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected at least one drive")
	}
	seen := map[string]bool{}
	for _, d := range list {
		if seen[d.Path] {
			t.Errorf("duplicate drive %q", d.Path)
		}
		seen[d.Path] = true
		if skipFSTypes[d.FSType] {
			t.Errorf("pseudo filesystem %q at %q was not skipped", d.FSType, d.Path)
		}
	}
}
