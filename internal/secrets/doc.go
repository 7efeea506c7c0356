// Package secrets provides the cryptographic primitives of the vault.
//
// # Encryption Architecture
//
// strongbox uses envelope encryption:
//
//  1. A random 256-bit data encryption key (DEK) encrypts every record's
//     password and notes
//  2. The DEK is wrapped with a key derived from the master password
//  3. Unlocking derives the wrapping key, unwraps the DEK, and discards the
//     derived key
//
// Changing the master password only re-wraps the DEK, so it costs the same
// no matter how many records the vault holds.
//
// # Primitives
//
//   - DeriveKey: PBKDF2-HMAC-SHA256, 16-byte salt, 32-byte output, at least
//     MinIterations rounds
//   - Encrypt/Decrypt: AES-256-GCM with a 12-byte nonce and the 16-byte tag
//     appended to the ciphertext
//   - Seal/Open: the record envelope, a canonical {"password","notes"} JSON
//     object encrypted under the DEK
//
// Decrypt reports every tag failure as ErrAuthenticationFailed. Open turns
// that into ErrCorruptRecord because the DEK is known to be correct by the
// time records are opened.
//
// # Security Considerations
//
// A nonce is drawn from crypto/rand for every encryption. Derived keys and
// decoded plaintext buffers are wiped with Zero once they are no longer
// needed.
package secrets
