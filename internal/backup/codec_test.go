package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/secrets"
)

var testEntries = []Entry{
	{Title: "GitHub", Username: "octo", Password: "hunter2", Website: "github.com", Notes: "2fa on", Category: "work"},
	{Title: "Bank", Username: "me", Password: "s3cr3t", Website: "bank.example", Notes: "", Category: "finance"},
}

func encodeTest(t *testing.T, entries []Entry, password string) []byte {
	t.Helper()
	data, err := Encode(entries, []byte(password), EncodeOptions{
		Iterations: secrets.MinIterations,
		Now:        func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("Failed to encode backup: %v", err)
	}
	return data
}

// rewrite decodes data into a generic map, applies fn and re-encodes it.
func rewrite(t *testing.T, data []byte, fn func(m map[string]any)) []byte {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Failed to parse backup: %v", err)
	}
	fn(m)
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Failed to re-encode backup: %v", err)
	}
	return out
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	data := encodeTest(t, testEntries, "backup-pw")

	payload, err := Decode(data, []byte("backup-pw"))
	if err != nil {
		t.Fatalf("Failed to decode backup: %v", err)
	}
	if payload.Version != Version {
		t.Errorf("Expected version %d, got %d", Version, payload.Version)
	}
	if payload.ExportedAt != "2024-05-01T12:00:00Z" {
		t.Errorf("Expected exported_at 2024-05-01T12:00:00Z, got %q", payload.ExportedAt)
	}
	if len(payload.Passwords) != len(testEntries) {
		t.Fatalf("Expected %d entries, got %d", len(testEntries), len(payload.Passwords))
	}
	for i, e := range payload.Passwords {
		if e != testEntries[i] {
			t.Errorf("Entry %d: expected %+v, got %+v", i, testEntries[i], e)
		}
	}
}

func TestEncode_FileFields(t *testing.T) {
	data := encodeTest(t, nil, "pw")

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("Failed to parse backup: %v", err)
	}
	if f.Version != 1 || f.KDF != "pbkdf2-sha256" || f.Iterations != secrets.MinIterations {
		t.Errorf("Unexpected header: %+v", f)
	}
	salt, _ := base64.StdEncoding.DecodeString(f.Salt)
	nonce, _ := base64.StdEncoding.DecodeString(f.Nonce)
	if len(salt) != 16 || len(nonce) != 12 {
		t.Errorf("Expected 16 byte salt and 12 byte nonce, got %d and %d", len(salt), len(nonce))
	}

	payload, err := Decode(data, []byte("pw"))
	if err != nil {
		t.Fatalf("Failed to decode backup: %v", err)
	}
	if payload.Passwords == nil || len(payload.Passwords) != 0 {
		t.Errorf("Expected an empty entry list, got %v", payload.Passwords)
	}
}

func TestEncode_FreshSaltAndNonce(t *testing.T) {
	var a, b File
	_ = json.Unmarshal(encodeTest(t, testEntries, "pw"), &a)
	_ = json.Unmarshal(encodeTest(t, testEntries, "pw"), &b)
	if a.Salt == b.Salt || a.Nonce == b.Nonce {
		t.Error("Expected every export to use a fresh salt and nonce")
	}
}

func TestEncode_RejectsEmptyPassword(t *testing.T) {
	if _, err := Encode(testEntries, nil, EncodeOptions{}); !errors.Is(err, kerrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestDecode_WrongPassword(t *testing.T) {
	data := encodeTest(t, testEntries, "right")

	_, err := Decode(data, []byte("wrong"))
	if !errors.Is(err, kerrors.ErrWrongPassword) {
		t.Fatalf("Expected ErrWrongPassword, got %v", err)
	}
	if errors.Is(err, kerrors.ErrMalformedFile) {
		t.Error("Wrong password must be distinguishable from a malformed file")
	}
}

func TestDecode_TamperedCiphertext(t *testing.T) {
	data := rewrite(t, encodeTest(t, testEntries, "pw"), func(m map[string]any) {
		ct, _ := base64.StdEncoding.DecodeString(m["ciphertext"].(string))
		ct[0] ^= 0x01
		m["ciphertext"] = base64.StdEncoding.EncodeToString(ct)
	})

	if _, err := Decode(data, []byte("pw")); !errors.Is(err, kerrors.ErrWrongPassword) {
		t.Errorf("Expected authentication failure, got %v", err)
	}
}

func TestDecode_UnsupportedVersionCheckedFirst(t *testing.T) {
	tests := []struct {
		name string
		fn   func(m map[string]any)
	}{
		{"NewerVersion", func(m map[string]any) { m["version"] = 2 }},
		{"ZeroVersion", func(m map[string]any) { m["version"] = 0 }},
		{"NewerVersionAndGarbage", func(m map[string]any) {
			m["version"] = 99
			m["salt"] = "!!"
			m["iterations"] = 1
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := rewrite(t, encodeTest(t, testEntries, "pw"), tc.fn)
			if _, err := Decode(data, []byte("pw")); !errors.Is(err, kerrors.ErrUnsupportedVersion) {
				t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
			}
		})
	}
}

func TestDecode_MalformedFile(t *testing.T) {
	valid := encodeTest(t, testEntries, "pw")

	tests := []struct {
		name string
		data []byte
	}{
		{"NotJSON", []byte("definitely not json")},
		{"Array", []byte("[1,2,3]")},
		{"MissingVersion", rewrite(t, valid, func(m map[string]any) { delete(m, "version") })},
		{"StringVersion", rewrite(t, valid, func(m map[string]any) { m["version"] = "1" })},
		{"UnknownKDF", rewrite(t, valid, func(m map[string]any) { m["kdf"] = "argon2id" })},
		{"BelowFloor", rewrite(t, valid, func(m map[string]any) { m["iterations"] = secrets.MinIterations - 1 })},
		{"AboveCeiling", rewrite(t, valid, func(m map[string]any) { m["iterations"] = MaxIterations + 1 })},
		{"BadSaltBase64", rewrite(t, valid, func(m map[string]any) { m["salt"] = "%%%" })},
		{"ShortSalt", rewrite(t, valid, func(m map[string]any) { m["salt"] = base64.StdEncoding.EncodeToString(make([]byte, 8)) })},
		{"LongNonce", rewrite(t, valid, func(m map[string]any) { m["nonce"] = base64.StdEncoding.EncodeToString(make([]byte, 24)) })},
		{"ShortCiphertext", rewrite(t, valid, func(m map[string]any) { m["ciphertext"] = base64.StdEncoding.EncodeToString([]byte("short")) })},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data, []byte("pw"))
			if !errors.Is(err, kerrors.ErrMalformedFile) {
				t.Errorf("Expected ErrMalformedFile, got %v", err)
			}
		})
	}
}

func TestDecode_PayloadNotJSON(t *testing.T) {
	data := sealRawBackup(t, []byte("not a payload"), "pw")
	if _, err := Decode(data, []byte("pw")); !errors.Is(err, kerrors.ErrMalformedFile) {
		t.Errorf("Expected ErrMalformedFile, got %v", err)
	}
}

func TestDecode_PayloadVersionMismatch(t *testing.T) {
	data := sealRawBackup(t, []byte(`{"version":3,"exported_at":"","passwords":[]}`), "pw")
	if _, err := Decode(data, []byte("pw")); !errors.Is(err, kerrors.ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}
}

// sealRawBackup builds a well-formed backup file around an arbitrary payload.
func sealRawBackup(t *testing.T, plaintext []byte, password string) []byte {
	t.Helper()
	salt, _ := secrets.GenerateSalt()
	nonce, _ := secrets.GenerateNonce()
	key, err := secrets.DeriveKey([]byte(password), salt, secrets.MinIterations)
	if err != nil {
		t.Fatalf("Failed to derive key: %v", err)
	}
	ct, err := secrets.Encrypt(key, nonce, plaintext)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	data, _ := json.Marshal(File{
		Version:    Version,
		KDF:        secrets.KDFName,
		Iterations: secrets.MinIterations,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ct),
	})
	return data
}
