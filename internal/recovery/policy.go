package recovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Policy decides what happens when the destination name is taken
type Policy int

const (
	// PolicyFail leaves the item in the trash and reports a failure
	PolicyFail Policy = iota

	// PolicyOverwrite replaces whatever is at the destination
	PolicyOverwrite

	// PolicyRename picks the first free name among name_1, name_2, ...
	PolicyRename
)

func (p Policy) String() string {
	switch p {
	case PolicyFail:
		return "fail"
	case PolicyOverwrite:
		return "overwrite"
	case PolicyRename:
		return "rename"
	}
	return "unknown"
}

// ParsePolicy accepts the names returned by Policy.String
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "fail":
		return PolicyFail, nil
	case "overwrite":
		return PolicyOverwrite, nil
	case "rename":
		return PolicyRename, nil
	}
	return PolicyFail, fmt.Errorf("unknown conflict policy %q", s)
}

// freeName returns dst itself, or dst with the first _N suffix that does
// not exist yet. The suffix goes after the whole name, matching how the
// trash names duplicates.
func freeName(dst string) string {
	if !exists(dst) {
		return dst
	}
	dir, base := filepath.Split(dst)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d", base, i))
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
