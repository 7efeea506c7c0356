package configs

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/secrets"
	"github.com/PolarWolf314/strongbox/internal/utils"
)

type Config struct {
	Install Install      `toml:"install"`
	Vault   VaultConfig  `toml:"vault"`
	Backup  BackupConfig `toml:"backup"`
	Audit   AuditConfig  `toml:"audit"`
}

type Install struct {
	UUID string `toml:"uuid"`
}

type VaultConfig struct {
	// Path of the vault database. Empty means UserSettings.DefaultVaultPath.
	Path          string `toml:"path"`
	KDFIterations int    `toml:"kdf_iterations"`
}

type BackupConfig struct {
	// Directory receives exports written without an explicit --output.
	Directory     string `toml:"directory"`
	KDFIterations int    `toml:"kdf_iterations"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when config.toml is absent.
func DefaultConfig() *Config {
	return &Config{
		Vault:  VaultConfig{KDFIterations: secrets.DefaultIterations},
		Backup: BackupConfig{Directory: ".", KDFIterations: secrets.DefaultIterations},
		Audit:  AuditConfig{Enabled: true},
	}
}

// LoadConfig loads config.toml over DefaultConfig. A missing file is not an error.
//
// Returns ErrInvalidConfig if the file does not parse or fails Validate.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()
	path := UserStrongboxSettings.ConfigFile()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes config to config.toml.
func SaveConfig(config *Config) error {
	if err := SaveTOML(UserStrongboxSettings.ConfigFile(), config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// EnsureConfig loads the configuration and assigns an installation UUID on first use.
func EnsureConfig() (*Config, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if config.Install.UUID != "" {
		return config, nil
	}

	config.Install.UUID = uuid.New().String()
	if err := SaveConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects iteration counts below the KDF floor.
func (c *Config) Validate() error {
	if c.Vault.KDFIterations < secrets.MinIterations {
		return fmt.Errorf("%w: vault.kdf_iterations must be at least %d", kerrors.ErrInvalidConfig, secrets.MinIterations)
	}
	if c.Backup.KDFIterations < secrets.MinIterations {
		return fmt.Errorf("%w: backup.kdf_iterations must be at least %d", kerrors.ErrInvalidConfig, secrets.MinIterations)
	}
	return nil
}

// VaultPath returns the configured vault path with "~" expanded, or the default.
func (c *Config) VaultPath() (string, error) {
	if c.Vault.Path == "" {
		return UserStrongboxSettings.DefaultVaultPath(), nil
	}
	return utils.ExpandHome(c.Vault.Path)
}
