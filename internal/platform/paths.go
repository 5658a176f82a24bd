package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// defaultAppName names the config and data directories.
const defaultAppName = "tavla"

// boardFileName is the JSON store file name, shared with older board files.
const boardFileName = "kanban.json"

// Paths holds every resolved on-disk location.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
	JSONPath   string
}

// Options defines optional settings for configuration.
type Options struct {
	AppName string
	DevMode bool
}

// DefaultPaths returns default paths.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves paths from the current OS and environment.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = defaultAppName
	}
	if opts.DevMode {
		appName += "-dev"
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir := configDir
	switch runtime.GOOS {
	case "linux":
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return Paths{}, fmt.Errorf("user home dir: %w", homeErr)
		}
		dataDir = filepath.Join(home, ".local", "share")
	case "windows":
		if v := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); v != "" {
			dataDir = v
		}
	}

	env := map[string]string{}
	for _, name := range []string{"XDG_CONFIG_HOME", "XDG_DATA_HOME", "APPDATA", "LOCALAPPDATA"} {
		env[name] = os.Getenv(name)
	}
	return PathsFor(runtime.GOOS, env, configDir, dataDir, appName)
}

// PathsFor resolves paths for an explicit OS, environment and base dirs.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, errors.New("empty base dirs")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, errors.New("empty app name")
	}

	configBase, dataBase := baseDirs(goos, env, userConfigDir, userDataDir)
	appDataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    appDataDir,
		DBPath:     filepath.Join(appDataDir, appName+".db"),
		JSONPath:   filepath.Join(appDataDir, boardFileName),
	}, nil
}

// baseDirs applies XDG overrides on linux and APPDATA overrides on windows.
// Other platforms keep the user dirs as given.
func baseDirs(goos string, env map[string]string, configBase, dataBase string) (string, string) {
	configVar, dataVar := "", ""
	switch goos {
	case "linux":
		configVar, dataVar = "XDG_CONFIG_HOME", "XDG_DATA_HOME"
	case "windows":
		configVar, dataVar = "APPDATA", "LOCALAPPDATA"
	default:
		return configBase, dataBase
	}
	if v := env[configVar]; v != "" {
		configBase = v
	}
	if v := env[dataVar]; v != "" {
		dataBase = v
	}
	return configBase, dataBase
}
