package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"
)

var (
	DORMANT_CONFIG_PATH string

	DORMANT_LOG_PATH string
)

func init() {
	// https://github.com/charmbracelet/log/issues/35
	os.Setenv("CLICOLOR_FORCE", "1")

	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	DORMANT_CONFIG_PATH = os.Getenv("DORMANT_CONFIG_PATH")
	if DORMANT_CONFIG_PATH == "" {
		DORMANT_CONFIG_PATH = filepath.Join(baseDir("XDG_CONFIG_HOME", defaultXDGConfigDirname), "dormant", "config.yaml")
	}

	DORMANT_LOG_PATH = os.Getenv("DORMANT_LOG_PATH")
	if DORMANT_LOG_PATH == "" {
		DORMANT_LOG_PATH = filepath.Join(baseDir("XDG_DATA_HOME", defaultXDGDataDirname), "dormant", "debug.log")
	}
}

func baseDir(key, fallback string) string {
	if dir := os.Getenv(key); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(homeDir, fallback)
}
