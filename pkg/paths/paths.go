// Package paths provides centralized path handling for fman.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for fman
	EnvDataDir = "FMAN_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for fman
	EnvConfigDir = "FMAN_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for fman
	EnvStateDir = "FMAN_STATE_DIR"

	// EnvTrashDir overrides the staging location for deleted files
	EnvTrashDir = "FMAN_TRASH_DIR"
)

// Default directories and files
const (
	// AppDirName is the directory name for fman-specific files
	AppDirName = "fman"

	// TrashDirName is the subdirectory holding staged deletes
	TrashDirName = "trash"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "fman.log"
)

// Paths provides centralized path management for fman
type Paths struct {
	dataDir   string
	configDir string
	stateDir  string
	trashDir  string
}

// New resolves all fman directories from the environment, falling back to
// the XDG base directories.
func New() *Paths {
	p := &Paths{}

	p.dataDir = os.Getenv(EnvDataDir)
	if p.dataDir == "" {
		p.dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	p.configDir = os.Getenv(EnvConfigDir)
	if p.configDir == "" {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	p.stateDir = os.Getenv(EnvStateDir)
	if p.stateDir == "" {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	p.trashDir = os.Getenv(EnvTrashDir)
	if p.trashDir == "" {
		p.trashDir = filepath.Join(p.dataDir, TrashDirName)
	}

	return p
}

// DataDir returns the fman data directory
func (p *Paths) DataDir() string { return p.dataDir }

// ConfigDir returns the fman config directory
func (p *Paths) ConfigDir() string { return p.configDir }

// StateDir returns the fman state directory
func (p *Paths) StateDir() string { return p.stateDir }

// TrashDir returns the staging directory for deleted files
func (p *Paths) TrashDir() string { return p.trashDir }

// ConfigFile returns the path of the user configuration file
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// LogFile returns the path of the log file
func (p *Paths) LogFile() string {
	return filepath.Join(p.stateDir, LogFileName)
}
