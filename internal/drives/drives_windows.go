//go:build windows

package drives

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows"
)

const fileReadOnlyVolume = 0x00080000

// List returns the logical drives, skipping optical drives with no media
func List() ([]Drive, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, fmt.Errorf("GetLogicalDrives failed: %w", err)
	}

	var list []Drive
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		root := string(rune('A'+i)) + `:\`
		d, err := describe(root)
		if err != nil {
			slog.Debug("skipping drive", "drive", root, "error", err)
			continue
		}
		list = append(list, d)
	}
	return list, nil
}

func describe(root string) (Drive, error) {
	p, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return Drive{}, err
	}

	var (
		fsName = make([]uint16, windows.MAX_PATH+1)
		flags  uint32
	)
	if err := windows.GetVolumeInformation(p, nil, 0, nil, nil, &flags, &fsName[0], uint32(len(fsName))); err != nil {
		return Drive{}, err
	}

	return Drive{
		Path:     root,
		FSType:   windows.UTF16ToString(fsName),
		ReadOnly: flags&fileReadOnlyVolume != 0,
	}, nil
}
