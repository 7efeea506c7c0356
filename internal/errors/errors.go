package errors

import "errors"

// Input errors indicate a caller passed arguments the operation cannot accept.
var (
	// ErrInvalidInput indicates a malformed argument such as an empty password
	// or a key, salt or nonce of the wrong length.
	ErrInvalidInput = errors.New("invalid input")
)

// Vault state errors indicate the operation is not valid in the current state.
var (
	// ErrVaultNotInitialized indicates no master key material has been created yet.
	ErrVaultNotInitialized = errors.New("vault has not been initialized")

	// ErrAlreadyInitialized indicates master key material already exists.
	ErrAlreadyInitialized = errors.New("vault has already been initialized")

	// ErrVaultLocked indicates the data encryption key is not loaded.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrAlreadyUnlocked indicates the vault is already unlocked in this session.
	ErrAlreadyUnlocked = errors.New("vault is already unlocked")
)

// Cryptographic errors indicate failures while deriving, wrapping or opening keys and secrets.
var (
	// ErrAuthenticationFailed indicates an AEAD tag did not verify. Callers
	// translate it into ErrWrongPassword, ErrCorruptRecord or ErrMalformedFile.
	ErrAuthenticationFailed = errors.New("message authentication failed")

	// ErrWrongPassword indicates a master or backup password did not unwrap its key.
	ErrWrongPassword = errors.New("wrong password")

	// ErrWrongBackupPassword marks an ErrWrongPassword that came from the
	// backup file rather than the vault, for commands that ask for both.
	ErrWrongBackupPassword = errors.New("wrong backup password")

	// ErrCorruptRecord indicates a stored secret failed authentication or did not
	// decode, even though the vault key is correct.
	ErrCorruptRecord = errors.New("record is corrupted")

	// ErrVaultCorrupted indicates the persisted master key material is inconsistent.
	ErrVaultCorrupted = errors.New("vault key material is corrupted")
)

// Backup errors indicate problems with a backup file.
var (
	// ErrMalformedFile indicates the backup is not a structurally valid backup file.
	ErrMalformedFile = errors.New("invalid backup file format")

	// ErrUnsupportedVersion indicates the backup declares a format version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// Record errors indicate issues locating password records.
var (
	// ErrRecordNotFound indicates no record exists with the requested id.
	ErrRecordNotFound = errors.New("password record not found")
)

// File errors indicate issues with file discovery or access.
var (
	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoFilesFound indicates there was nothing to read, such as an absent audit log.
	ErrNoFilesFound = errors.New("no matching files found")
)

// Configuration errors indicate invalid user settings or flags.
var (
	// ErrInvalidConfig indicates config.toml could not be parsed or holds unusable values.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrInvalidDateFormat indicates a date string could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrConflictingFlags indicates mutually exclusive options were combined.
	ErrConflictingFlags = errors.New("conflicting options")
)
