package core

import (
	"os"
	"path/filepath"
)

type paths struct {
	HomeDir    string
	DataDir    string
	LogFile    string
	ConfigFile string
}

var defaultPaths *paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// The prompt must still render for accounts without a home.
			homeDir = os.TempDir()
		}

		defaultPaths = &paths{
			HomeDir:    homeDir,
			DataDir:    filepath.Join(homeDir, ".gprompt"),
			LogFile:    filepath.Join(homeDir, ".gprompt", "gprompt.log"),
			ConfigFile: filepath.Join(homeDir, ".gprompt", "config.yaml"),
		}
	}
}

// HomeDir returns the user's home directory, or the temp dir when there is none.
func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// EnsureDataDir creates the data directory if it does not exist yet.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0755)
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
