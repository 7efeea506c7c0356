// Package passwords implements the password record repository.
//
// A Service combines a Keyring (the unlocked vault) with a RecordStore. Titles,
// usernames, websites and categories are stored in the clear for listing and
// search; passwords and notes are sealed per record with a fresh nonce on
// every write.
//
// Listing never fails because of one bad record: an entry whose secret does
// not open is returned with Err set to ErrCorruptRecord.
package passwords
