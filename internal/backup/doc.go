// Package backup reads and writes password-protected backup files.
//
// A backup is a JSON document:
//
//	{
//	  "version": 1,
//	  "kdf": "pbkdf2-sha256",
//	  "iterations": 200000,
//	  "salt": "<base64, 16 bytes>",
//	  "nonce": "<base64, 12 bytes>",
//	  "ciphertext": "<base64, AES-256-GCM output with tag>"
//	}
//
// The ciphertext decrypts to a Payload holding plaintext entries. Exports
// are always re-encrypted from plaintext under a key derived from the backup
// password, so a backup never contains vault ciphertext and can be restored
// into any vault.
//
// Decode distinguishes a wrong password (ErrWrongPassword) from a file that
// is not a backup at all (ErrMalformedFile) and from a newer format
// (ErrUnsupportedVersion). How decoded entries are merged into a vault is up
// to the caller.
package backup
