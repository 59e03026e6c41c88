//go:build windows

package atomic

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// isSamePartition compares the volume serial numbers of src and dst
func isSamePartition(src, dst string) (bool, error) {
	srcVolume := filepath.VolumeName(src)
	dstVolume := filepath.VolumeName(dst)
	if srcVolume == "" || dstVolume == "" {
		return false, fmt.Errorf("no volume name in %q or %q", src, dst)
	}
	if strings.EqualFold(srcVolume, dstVolume) {
		return true, nil
	}

	srcID, err := volumeSerial(srcVolume)
	if err != nil {
		return false, err
	}
	dstID, err := volumeSerial(dstVolume)
	if err != nil {
		return false, err
	}
	return srcID == dstID, nil
}

func volumeSerial(volume string) (uint32, error) {
	var serial uint32
	root, err := windows.UTF16PtrFromString(volume + `\`)
	if err != nil {
		return 0, err
	}
	if err := windows.GetVolumeInformation(root, nil, 0, &serial, nil, nil, nil, 0); err != nil {
		return 0, fmt.Errorf("volume information for %s: %w", volume, err)
	}
	return serial, nil
}
