//go:build !linux

package atomic

import "os"

// renameNoReplace relies on the existence check made by Move
func renameNoReplace(src, dst string) error {
	return os.Rename(src, dst)
}
