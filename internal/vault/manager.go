package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	logger "github.com/PolarWolf314/strongbox/internal/logging"
	"github.com/PolarWolf314/strongbox/internal/secrets"
	"github.com/PolarWolf314/strongbox/internal/storage"
	"github.com/awnumar/memguard"
)

// KeyMaterialVersion is written to every new MasterKeyMaterial.
const KeyMaterialVersion = 1

// KeyMaterialStore persists the single MasterKeyMaterial of a vault.
type KeyMaterialStore interface {
	// LoadMasterKey returns ErrVaultNotInitialized when nothing is stored.
	LoadMasterKey(ctx context.Context) (*storage.MasterKeyMaterial, error)
	// SaveMasterKey must replace the stored material atomically.
	SaveMasterKey(ctx context.Context, m *storage.MasterKeyMaterial) error
	// Wipe removes the key material and all records.
	Wipe(ctx context.Context) error
}

// Options configures a KeyManager.
type Options struct {
	// Iterations is the PBKDF2 count for newly wrapped key material.
	// Zero means secrets.DefaultIterations.
	Iterations int

	Logger logger.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// KeyManager owns the unlocked data encryption key for one session.
//
// opMu serializes CreateVault, Unlock, ChangeMasterPassword and Wipe so the
// stored material is never read and replaced concurrently. keyMu guards the
// key slot: Seal, Open and WithKey share it, Lock and the rotation swap take
// it exclusively.
type KeyManager struct {
	store KeyMaterialStore
	opts  Options

	opMu sync.Mutex

	keyMu sync.RWMutex
	state State
	dek   *memguard.LockedBuffer
}

// NewKeyManager returns a manager in StateLocked if store holds key material
// and StateUninitialized otherwise.
func NewKeyManager(ctx context.Context, store KeyMaterialStore, opts Options) (*KeyManager, error) {
	if opts.Iterations == 0 {
		opts.Iterations = secrets.DefaultIterations
	}
	if opts.Iterations < secrets.MinIterations {
		return nil, fmt.Errorf("%w: %d iterations is below the minimum of %d", kerrors.ErrInvalidInput, opts.Iterations, secrets.MinIterations)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &KeyManager{store: store, opts: opts}

	_, err := store.LoadMasterKey(ctx)
	switch {
	case err == nil:
		m.state = StateLocked
	case errors.Is(err, kerrors.ErrVaultNotInitialized):
		m.state = StateUninitialized
	default:
		return nil, fmt.Errorf("loading key material: %w", err)
	}
	return m, nil
}

// State returns the current lifecycle state.
func (m *KeyManager) State() State {
	m.keyMu.RLock()
	defer m.keyMu.RUnlock()
	return m.state
}

// CreateVault generates a data key, wraps it under password and persists it.
// The vault is left unlocked.
//
// Returns ErrAlreadyInitialized if key material already exists and
// ErrInvalidInput if the password is empty.
func (m *KeyManager) CreateVault(ctx context.Context, password []byte) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.State() != StateUninitialized {
		return kerrors.ErrAlreadyInitialized
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: master password must not be empty", kerrors.ErrInvalidInput)
	}

	// Another session may have created the vault since this one was opened.
	_, err := m.store.LoadMasterKey(ctx)
	if err == nil {
		m.keyMu.Lock()
		m.state = StateLocked
		m.keyMu.Unlock()
		return kerrors.ErrAlreadyInitialized
	}
	if !errors.Is(err, kerrors.ErrVaultNotInitialized) {
		return fmt.Errorf("loading key material: %w", err)
	}

	dek := memguard.NewBufferRandom(secrets.KeySize)

	material, err := m.wrap(password, dek.Bytes())
	if err != nil {
		dek.Destroy()
		return err
	}
	material.CreatedAt = material.UpdatedAt

	m.opts.Logger.Debugf("Persisting key material (%d iterations)", material.Iterations)
	if err := m.store.SaveMasterKey(ctx, material); err != nil {
		dek.Destroy()
		return fmt.Errorf("saving key material: %w", err)
	}

	m.keyMu.Lock()
	m.setKeyLocked(dek)
	m.keyMu.Unlock()
	return nil
}

// Unlock derives the wrapping key from password and loads the data key.
//
// Returns ErrVaultNotInitialized before CreateVault, ErrAlreadyUnlocked if
// the key is already loaded, ErrWrongPassword if password does not unwrap
// the key, and ErrVaultCorrupted if the stored material is unusable.
func (m *KeyManager) Unlock(ctx context.Context, password []byte) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	switch m.State() {
	case StateUninitialized:
		return kerrors.ErrVaultNotInitialized
	case StateUnlocked:
		return kerrors.ErrAlreadyUnlocked
	}

	dek, err := m.unwrapStored(ctx, password)
	if err != nil {
		return err
	}

	m.keyMu.Lock()
	m.setKeyLocked(dek)
	m.keyMu.Unlock()
	m.opts.Logger.Debugf("Vault unlocked")
	return nil
}

// Lock destroys the in-memory data key. Returns ErrVaultLocked if it is not loaded.
func (m *KeyManager) Lock() error {
	m.keyMu.Lock()
	defer m.keyMu.Unlock()

	if m.state != StateUnlocked {
		return kerrors.ErrVaultLocked
	}
	m.dek.Destroy()
	m.dek = nil
	m.state = StateLocked
	return nil
}

// ChangeMasterPassword re-wraps the data key under newPassword with a fresh
// salt and nonce. Record ciphertexts are not touched, so the cost does not
// depend on how many records exist. The vault is unlocked afterwards.
//
// oldPassword is always checked against the stored material, even when the
// vault is already unlocked. Returns ErrWrongPassword if it does not unwrap
// the key, ErrVaultNotInitialized before CreateVault, and ErrInvalidInput if
// newPassword is empty.
func (m *KeyManager) ChangeMasterPassword(ctx context.Context, oldPassword, newPassword []byte) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.State() == StateUninitialized {
		return kerrors.ErrVaultNotInitialized
	}
	if len(newPassword) == 0 {
		return fmt.Errorf("%w: new master password must not be empty", kerrors.ErrInvalidInput)
	}

	current, err := m.store.LoadMasterKey(ctx)
	if err != nil {
		return fmt.Errorf("loading key material: %w", err)
	}

	dek, err := m.unwrap(current, oldPassword)
	if err != nil {
		return err
	}

	material, err := m.wrap(newPassword, dek.Bytes())
	if err != nil {
		dek.Destroy()
		return err
	}
	material.CreatedAt = current.CreatedAt

	m.keyMu.Lock()
	defer m.keyMu.Unlock()

	previous := m.state
	m.state = StateRotating
	if err := m.store.SaveMasterKey(ctx, material); err != nil {
		m.state = previous
		dek.Destroy()
		return fmt.Errorf("saving key material: %w", err)
	}

	m.setKeyLocked(dek)
	m.opts.Logger.Debugf("Master password changed")
	return nil
}

// Wipe deletes the key material and every record, and forgets the data key.
func (m *KeyManager) Wipe(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.keyMu.Lock()
	defer m.keyMu.Unlock()

	if err := m.store.Wipe(ctx); err != nil {
		return fmt.Errorf("wiping vault: %w", err)
	}
	if m.dek != nil {
		m.dek.Destroy()
		m.dek = nil
	}
	m.state = StateUninitialized
	return nil
}

// ActiveKey returns a copy of the data key. The caller must Zero it.
// Returns ErrVaultLocked unless the vault is unlocked.
func (m *KeyManager) ActiveKey() ([]byte, error) {
	var out []byte
	err := m.WithKey(func(dek []byte) error {
		out = append([]byte(nil), dek...)
		return nil
	})
	return out, err
}

// WithKey calls fn with the data key while holding the key slot shared.
// fn must not retain dek. Returns ErrVaultLocked unless the vault is unlocked.
func (m *KeyManager) WithKey(fn func(dek []byte) error) error {
	m.keyMu.RLock()
	defer m.keyMu.RUnlock()

	if m.state != StateUnlocked || m.dek == nil {
		return kerrors.ErrVaultLocked
	}
	return fn(m.dek.Bytes())
}

// Seal encrypts payload under the data key.
func (m *KeyManager) Seal(payload secrets.SecretPayload) (secrets.EncryptedField, error) {
	var field secrets.EncryptedField
	err := m.WithKey(func(dek []byte) error {
		var err error
		field, err = secrets.Seal(dek, payload)
		return err
	})
	return field, err
}

// Open decrypts a sealed field with the data key. A field that fails to open
// is reported as ErrCorruptRecord.
func (m *KeyManager) Open(field secrets.EncryptedField) (secrets.SecretPayload, error) {
	var payload secrets.SecretPayload
	err := m.WithKey(func(dek []byte) error {
		var err error
		payload, err = secrets.Open(dek, field)
		return err
	})
	return payload, err
}

// setKeyLocked installs dek as the active key. keyMu must be held.
func (m *KeyManager) setKeyLocked(dek *memguard.LockedBuffer) {
	if m.dek != nil && m.dek != dek {
		m.dek.Destroy()
	}
	m.dek = dek
	m.state = StateUnlocked
}

func (m *KeyManager) unwrapStored(ctx context.Context, password []byte) (*memguard.LockedBuffer, error) {
	material, err := m.store.LoadMasterKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading key material: %w", err)
	}
	return m.unwrap(material, password)
}

func (m *KeyManager) unwrap(material *storage.MasterKeyMaterial, password []byte) (*memguard.LockedBuffer, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: master password must not be empty", kerrors.ErrInvalidInput)
	}
	if material.KDF != secrets.KDFName {
		return nil, fmt.Errorf("%w: unknown kdf %q", kerrors.ErrVaultCorrupted, material.KDF)
	}
	if material.Iterations < secrets.MinIterations {
		return nil, fmt.Errorf("%w: %d iterations is below the minimum of %d", kerrors.ErrVaultCorrupted, material.Iterations, secrets.MinIterations)
	}
	if len(material.Salt) != secrets.SaltSize || len(material.WrapNonce) != secrets.NonceSize {
		return nil, fmt.Errorf("%w: salt or nonce has the wrong length", kerrors.ErrVaultCorrupted)
	}

	kek, err := secrets.DeriveKey(password, material.Salt, material.Iterations)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(kek)

	dek, err := secrets.Decrypt(kek, material.WrapNonce, material.WrappedDEK)
	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
		return nil, kerrors.ErrWrongPassword
	}
	if err != nil {
		return nil, fmt.Errorf("unwrapping data key: %w", err)
	}
	if len(dek) != secrets.KeySize {
		memguard.WipeBytes(dek)
		return nil, fmt.Errorf("%w: data key is %d bytes", kerrors.ErrVaultCorrupted, len(dek))
	}

	// NewBufferFromBytes wipes dek.
	return memguard.NewBufferFromBytes(dek), nil
}

func (m *KeyManager) wrap(password, dek []byte) (*storage.MasterKeyMaterial, error) {
	salt, err := secrets.GenerateSalt()
	if err != nil {
		return nil, err
	}
	nonce, err := secrets.GenerateNonce()
	if err != nil {
		return nil, err
	}

	kek, err := secrets.DeriveKey(password, salt, m.opts.Iterations)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(kek)

	wrapped, err := secrets.Encrypt(kek, nonce, dek)
	if err != nil {
		return nil, fmt.Errorf("wrapping data key: %w", err)
	}

	return &storage.MasterKeyMaterial{
		Version:    KeyMaterialVersion,
		KDF:        secrets.KDFName,
		Iterations: m.opts.Iterations,
		Salt:       salt,
		WrappedDEK: wrapped,
		WrapNonce:  nonce,
		UpdatedAt:  m.opts.Now().UTC(),
	}, nil
}
