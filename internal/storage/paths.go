package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "banqi"

// GetDataDir returns the per-user data directory, creating it if needed:
// ~/Library/Application Support/banqi on macOS, %APPDATA%\banqi on Windows
// and $XDG_DATA_HOME/banqi (default ~/.local/share/banqi) elsewhere.
func GetDataDir() (string, error) {
	base, err := dataBase()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func dataBase() (string, error) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// subDir returns a named directory under the data directory, creating it.
func subDir(name string) (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(dataDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetRenderDir returns the directory for rendered board diagrams.
func GetRenderDir() (string, error) { return subDir("diagrams") }

// GetDatabaseDir returns the directory of the default BadgerDB database.
func GetDatabaseDir() (string, error) { return subDir("db") }
