package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semonto.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semonto"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// ErrConfigExists is returned when init would overwrite a config file.
var ErrConfigExists = errors.New("config file already exists")

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	// workDir is where the project config search starts (default: cwd)
	workDir string
	// homeDir overrides the user home directory
	homeDir string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithWorkDir sets the directory the project config search starts from.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) { l.workDir = dir }
}

// WithHomeDir sets the directory the user config is read from.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) { l.homeDir = dir }
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/semonto/config.yaml)
// 3. Project config (semonto.yaml in the working or a parent directory)
//
// An explicit path replaces the project config search.
func (l *Loader) Load(explicit string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Load user config
	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		if userConfig, err := readLayer(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config
	projectConfigPath := explicit
	if projectConfigPath == "" {
		projectConfigPath = l.findProjectConfig()
	}
	if projectConfigPath != "" {
		projectConfig, err := readLayer(projectConfigPath)
		if err != nil {
			if explicit != "" {
				return nil, err
			}
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		} else {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
			l.resolvePaths(config, filepath.Dir(projectConfigPath))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	// Relative paths without a project config resolve against the working directory
	if config.Sources.Root == "" {
		config.Sources.Root = l.cwd()
	}

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolvePaths anchors the source root and file store of a project config
// at the directory containing it.
func (l *Loader) resolvePaths(config *Config, dir string) {
	if config.Sources.Root == "" {
		config.Sources.Root = dir
	} else if !filepath.IsAbs(config.Sources.Root) {
		config.Sources.Root = filepath.Join(dir, config.Sources.Root)
	}
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(dir, config.Storage.Path)
	}
}

// InitProject writes a default project config for the named vocabulary into
// dir and returns its path. An existing config is left untouched.
func (l *Loader) InitProject(dir, vocabulary string) (string, error) {
	configPath := filepath.Join(dir, ProjectConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		return configPath, fmt.Errorf("%w: %s", ErrConfigExists, configPath)
	}

	config := DefaultConfig()
	if vocabulary != "" {
		config.Vocabulary = vocabulary
		config.Generate.Package = packageName(vocabulary)
	}
	if err := config.Validate(); err != nil {
		return "", err
	}
	if err := config.SaveToFile(configPath); err != nil {
		return "", err
	}

	l.logger.Info("Created project config", slog.String("path", configPath))
	return configPath, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't
// exist and returns its path.
func (l *Loader) EnsureUserConfig() (string, error) {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return "", fmt.Errorf("cannot determine user home directory")
	}

	if _, err := os.Stat(userConfigPath); err == nil {
		return userConfigPath, nil // Already exists
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return "", err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return userConfigPath, nil
}

// packageName reduces a vocabulary name to a valid Go package name.
func packageName(name string) string {
	pkg := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		default:
			return -1
		}
	}, name)
	if pkg == "" || (pkg[0] >= '0' && pkg[0] <= '9') {
		pkg = "model" + pkg
	}
	return pkg
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func (l *Loader) cwd() string {
	if l.workDir != "" {
		return l.workDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// findProjectConfig searches for semonto.yaml in the working and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.cwd()
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
