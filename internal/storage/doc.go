// Package storage persists vault data in a bbolt database.
//
// # Layout
//
// The database holds two buckets:
//
//   - meta: the single MasterKeyMaterial value under the key "master"
//   - passwords: one JSON Record per entry, keyed by its 8-byte big-endian id
//
// Record metadata (title, username, website, category, timestamps) is stored
// in the clear so it can be listed and searched while the secrets stay sealed.
//
// Every write runs in one bbolt transaction, so replacing the master key
// material, a merge import, or an overwrite import either lands completely
// or not at all.
//
// # Usage
//
//	db, err := storage.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
package storage
