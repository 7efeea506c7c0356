package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/audit"
	"github.com/PolarWolf314/strongbox/internal/configs"
	"github.com/PolarWolf314/strongbox/internal/passwords"
	"github.com/PolarWolf314/strongbox/internal/storage"
	"github.com/PolarWolf314/strongbox/internal/vault"
)

// session is the vault opened for a single workflow call.
type session struct {
	config    *configs.Config
	vaultPath string
	db        *storage.DB
	keys      *vault.KeyManager
	passwords *passwords.Service
}

// openSession loads config.toml and opens the vault database without unlocking it.
func openSession(ctx context.Context) (*session, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	vaultPath, err := config.VaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolving vault path: %w", err)
	}

	db, err := storage.Open(vaultPath)
	if err != nil {
		return nil, err
	}

	keys, err := vault.NewKeyManager(ctx, db, vault.Options{Iterations: config.Vault.KDFIterations})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &session{
		config:    config,
		vaultPath: vaultPath,
		db:        db,
		keys:      keys,
		passwords: passwords.NewService(keys, db),
	}, nil
}

// openUnlocked opens the vault and unlocks it with masterPassword.
//
// Returns ErrVaultNotInitialized if the vault has not been created and
// ErrWrongPassword if masterPassword is wrong.
func openUnlocked(ctx context.Context, masterPassword []byte) (*session, error) {
	s, err := openSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.keys.Unlock(ctx, masterPassword); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close locks the vault if it is unlocked and closes the database.
func (s *session) Close() {
	if s.keys.State() == vault.StateUnlocked {
		_ = s.keys.Lock()
	}
	s.db.Close()
}

// audit records entry when auditing is enabled in config.toml.
func (s *session) audit(op string, fill func(e *audit.Entry)) {
	if !s.config.Audit.Enabled {
		return
	}
	entry := audit.LogWithUser(op)
	if fill != nil {
		fill(&entry)
	}
	audit.Log(entry)
}
