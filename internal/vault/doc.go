// Package vault manages the data encryption key of an open vault.
//
// A KeyManager is the session object for one vault. It moves through
//
//	Uninitialized -> Locked -> Unlocked
//
// with a transient Rotating state while a new master password is persisted.
// CreateVault and Unlock leave it Unlocked, Lock returns it to Locked, and
// Wipe returns it to Uninitialized.
//
// The data key is kept in a memguard LockedBuffer while unlocked and is
// destroyed on Lock and Wipe. Records are sealed and opened through Seal and
// Open, which fail with ErrVaultLocked when no key is loaded.
//
// # Usage
//
//	km, err := vault.NewKeyManager(ctx, db, vault.Options{})
//	if err != nil {
//	    return err
//	}
//	if err := km.Unlock(ctx, password); err != nil {
//	    return err // ErrWrongPassword, ErrVaultNotInitialized, ...
//	}
//	defer km.Lock()
package vault
