package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"go.etcd.io/bbolt"
)

// Bucket names
var (
	MetaBucket      = []byte("meta")
	PasswordsBucket = []byte("passwords")

	masterKey = []byte("master")
)

// DB is a bbolt-backed vault database.
type DB struct {
	db   *bbolt.DB
	path string
}

// Open opens or creates the database at path, creating parent directories with 0700.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating vault directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("opening vault database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{MetaBucket, PasswordsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db, path: path}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close releases the database file lock.
func (d *DB) Close() error {
	return d.db.Close()
}

// LoadMasterKey returns the stored key material, or ErrVaultNotInitialized if there is none.
func (d *DB) LoadMasterKey(ctx context.Context) (*MasterKeyMaterial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var m *MasterKeyMaterial
	err := d.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(MetaBucket).Get(masterKey)
		if raw == nil {
			return kerrors.ErrVaultNotInitialized
		}
		m = &MasterKeyMaterial{}
		if err := json.Unmarshal(raw, m); err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrVaultCorrupted, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// SaveMasterKey replaces the stored key material in a single transaction.
func (d *DB) SaveMasterKey(ctx context.Context, m *MasterKeyMaterial) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding key material: %w", err)
	}
	return d.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(MetaBucket).Put(masterKey, raw)
	})
}

// Wipe removes the key material and every record in one transaction.
func (d *DB) Wipe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return d.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{MetaBucket, PasswordsBucket} {
			if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
				return fmt.Errorf("deleting %s bucket: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("creating %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// InsertRecord stores r under a new id and returns it. r.ID is updated.
func (d *DB) InsertRecord(ctx context.Context, r *Record) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	err := d.db.Update(func(tx *bbolt.Tx) error {
		return putNew(tx.Bucket(PasswordsBucket), r)
	})
	if err != nil {
		return 0, err
	}
	return r.ID, nil
}

// GetRecord returns the record with id, or ErrRecordNotFound.
func (d *DB) GetRecord(ctx context.Context, id uint64) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r *Record
	err := d.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(PasswordsBucket).Get(itob(id))
		if raw == nil {
			return fmt.Errorf("%w: id %d", kerrors.ErrRecordNotFound, id)
		}
		r = &Record{}
		if err := json.Unmarshal(raw, r); err != nil {
			return fmt.Errorf("%w: id %d: %v", kerrors.ErrCorruptRecord, id, err)
		}
		r.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRecord overwrites the existing record with r.ID.
func (d *DB) UpdateRecord(ctx context.Context, r *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(PasswordsBucket)
		if b.Get(itob(r.ID)) == nil {
			return fmt.Errorf("%w: id %d", kerrors.ErrRecordNotFound, r.ID)
		}
		return put(b, r)
	})
}

// DeleteRecord removes the record with id.
func (d *DB) DeleteRecord(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(PasswordsBucket)
		if b.Get(itob(id)) == nil {
			return fmt.Errorf("%w: id %d", kerrors.ErrRecordNotFound, id)
		}
		return b.Delete(itob(id))
	})
}

// ListRecords returns every record, most recently updated first. Entries whose
// stored bytes do not decode are returned with only ID and Damaged set. A key
// that is not an 8-byte id yields a damaged entry with ID zero.
func (d *DB) ListRecords(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []Record
	err := d.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(PasswordsBucket).ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				records = append(records, Record{Damaged: true})
				return nil
			}
			id := binary.BigEndian.Uint64(k)
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				records = append(records, Record{ID: id, Damaged: true})
				return nil
			}
			r.ID = id
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		}
		return records[i].ID > records[j].ID
	})
	return records, nil
}

// CountRecords returns the number of stored records.
func (d *DB) CountRecords(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := d.db.View(func(tx *bbolt.Tx) error {
		n = countKeys(tx.Bucket(PasswordsBucket))
		return nil
	})
	return n, err
}

// MergeRecords inserts every record whose DuplicateKey is not already present,
// including keys inserted earlier in the same call. It runs in one transaction.
func (d *DB) MergeRecords(ctx context.Context, records []Record) (inserted, skipped int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(PasswordsBucket)

		seen := make(map[string]bool)
		if err := b.ForEach(func(_, v []byte) error {
			var r Record
			if json.Unmarshal(v, &r) == nil {
				seen[r.DuplicateKey()] = true
			}
			return nil
		}); err != nil {
			return err
		}

		for i := range records {
			key := records[i].DuplicateKey()
			if seen[key] {
				skipped++
				continue
			}
			if err := putNew(b, &records[i]); err != nil {
				return err
			}
			seen[key] = true
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, skipped, nil
}

// ReplaceRecords deletes every record and inserts records in one transaction.
// Ids keep increasing across replacements. Returns the resulting record count.
func (d *DB) ReplaceRecords(ctx context.Context, records []Record) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var total int
	err := d.db.Update(func(tx *bbolt.Tx) error {
		seq := tx.Bucket(PasswordsBucket).Sequence()
		if err := tx.DeleteBucket(PasswordsBucket); err != nil {
			return fmt.Errorf("clearing passwords: %w", err)
		}
		b, err := tx.CreateBucket(PasswordsBucket)
		if err != nil {
			return fmt.Errorf("creating passwords bucket: %w", err)
		}
		if err := b.SetSequence(seq); err != nil {
			return err
		}

		for i := range records {
			if err := putNew(b, &records[i]); err != nil {
				return err
			}
		}
		total = countKeys(b)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func putNew(b *bbolt.Bucket, r *Record) error {
	id, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("allocating record id: %w", err)
	}
	r.ID = id
	return put(b, r)
}

func put(b *bbolt.Bucket, r *Record) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return b.Put(itob(r.ID), raw)
}

func countKeys(b *bbolt.Bucket) int {
	n := 0
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
