//go:build !windows

package drives

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/moby/sys/mountinfo"
	"github.com/samber/lo"
)

// List returns the mounted filesystems that can hold user files, in the
// order the kernel reports them. The root filesystem is always included.
func List() ([]Drive, error) {
	mounts, err := mountinfo.GetMounts(func(info *mountinfo.Info) (skip, stop bool) {
		if skipFSTypes[info.FSType] {
			slog.Debug("skipping filesystem", "type", info.FSType, "mountpoint", info.Mountpoint)
			return true, false
		}
		return false, false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get mount info: %w", err)
	}

	list := lo.Map(mounts, func(m *mountinfo.Info, _ int) Drive {
		return Drive{
			Path:     m.Mountpoint,
			FSType:   m.FSType,
			Source:   m.Source,
			ReadOnly: isReadOnly(m),
		}
	})
	list = lo.UniqBy(list, func(d Drive) string { return d.Path })

	if !lo.ContainsBy(list, func(d Drive) bool { return d.Path == "/" }) {
		list = slices.Insert(list, 0, Drive{Path: "/"})
	}
	return list, nil
}

func isReadOnly(m *mountinfo.Info) bool {
	return slices.Contains(strings.Split(m.Options, ","), "ro") ||
		slices.Contains(strings.Split(m.VFSOptions, ","), "ro")
}
