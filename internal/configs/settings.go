package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/strongbox/internal/utils"
)

// UserSettings holds the per-user locations strongbox reads and writes.
type UserSettings struct {
	// ConfigDir holds config.toml.
	ConfigDir string
	// DataDir holds the default vault database and the audit log.
	DataDir  string
	Username string
}

var UserStrongboxSettings *UserSettings

func init() {
	settings, err := ResolveUserSettings()
	if err != nil {
		log.Fatalf("error resolving user settings: %s", err)
	}
	// This is independent of the working directory, so it is ok to init here
	UserStrongboxSettings = settings
}

// ResolveUserSettings computes UserSettings from the environment.
//
// STRONGBOX_CONFIG_DIR and STRONGBOX_DATA_DIR override the defaults of
// <os.UserConfigDir>/strongbox and $XDG_DATA_HOME/strongbox (falling back to
// ~/.local/share/strongbox).
func ResolveUserSettings() (*UserSettings, error) {
	configDir := os.Getenv("STRONGBOX_CONFIG_DIR")
	if configDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("getting config directory: %w", err)
		}
		configDir = filepath.Join(base, "strongbox")
	}

	dataDir := os.Getenv("STRONGBOX_DATA_DIR")
	if dataDir == "" {
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("getting home directory: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		dataDir = filepath.Join(base, "strongbox")
	}

	username, err := utils.GetUsername()
	if err != nil {
		username = "unknown"
	}

	return &UserSettings{
		ConfigDir: configDir,
		DataDir:   dataDir,
		Username:  username,
	}, nil
}

// ConfigFile returns the path of config.toml.
func (s *UserSettings) ConfigFile() string {
	return filepath.Join(s.ConfigDir, "config.toml")
}

// DefaultVaultPath returns the vault database path used when config.toml sets none.
func (s *UserSettings) DefaultVaultPath() string {
	return filepath.Join(s.DataDir, "vault.db")
}

// AuditLogPath returns the path of the JSONL audit log.
func (s *UserSettings) AuditLogPath() string {
	return filepath.Join(s.DataDir, "audit.jsonl")
}
