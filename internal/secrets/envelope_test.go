package secrets

import (
	"bytes"
	"errors"
	"testing"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	dek := mustKey(t)
	payload := SecretPayload{Password: "p@ss\"word", Notes: "line one\nline two ✓"}

	field, err := Seal(dek, payload)
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}
	got, err := Open(dek, field)
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	if got != payload {
		t.Errorf("Expected %+v, got %+v", payload, got)
	}
}

func TestSeal_CanonicalEncoding(t *testing.T) {
	dek := mustKey(t)
	field, err := Seal(dek, SecretPayload{Password: "a", Notes: ""})
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}

	plaintext, err := Decrypt(dek, field.Nonce, field.Ciphertext)
	if err != nil {
		t.Fatalf("Failed to decrypt: %v", err)
	}
	if want := `{"password":"a","notes":""}`; string(plaintext) != want {
		t.Errorf("Expected %s, got %s", want, plaintext)
	}
}

func TestSeal_FreshNonceEachTime(t *testing.T) {
	dek := mustKey(t)
	payload := SecretPayload{Password: "same", Notes: "same"}

	f1, err := Seal(dek, payload)
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}
	f2, err := Seal(dek, payload)
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}
	if bytes.Equal(f1.Nonce, f2.Nonce) {
		t.Error("Expected distinct nonces")
	}
	if bytes.Equal(f1.Ciphertext, f2.Ciphertext) {
		t.Error("Expected distinct ciphertexts for identical payloads")
	}
}

func TestOpen_CorruptRecord(t *testing.T) {
	dek := mustKey(t)
	field, err := Seal(dek, SecretPayload{Password: "pw", Notes: "n"})
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}

	tampered := EncryptedField{Ciphertext: append([]byte(nil), field.Ciphertext...), Nonce: field.Nonce}
	tampered.Ciphertext[2] ^= 0x10

	notJSON := sealRaw(t, dek, []byte("not json"))
	missingNotes := sealRaw(t, dek, []byte(`{"password":"pw"}`))
	wrongShape := sealRaw(t, dek, []byte(`["pw","n"]`))

	tests := []struct {
		name  string
		dek   []byte
		field EncryptedField
	}{
		{"Tampered", dek, tampered},
		{"WrongKey", mustKey(t), field},
		{"ShortNonce", dek, EncryptedField{Ciphertext: field.Ciphertext, Nonce: field.Nonce[:8]}},
		{"NotJSON", dek, notJSON},
		{"MissingField", dek, missingNotes},
		{"WrongShape", dek, wrongShape},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Open(tc.dek, tc.field)
			if !errors.Is(err, kerrors.ErrCorruptRecord) {
				t.Errorf("Expected ErrCorruptRecord, got %v", err)
			}
			if errors.Is(err, kerrors.ErrWrongPassword) {
				t.Error("Corrupt record must not look like a wrong password")
			}
		})
	}
}

func TestSeal_RejectsInvalidUTF8(t *testing.T) {
	dek := mustKey(t)

	tests := []struct {
		name    string
		payload SecretPayload
	}{
		{"Latin1Password", SecretPayload{Password: "caf\xe9", Notes: ""}},
		{"BinaryNotes", SecretPayload{Password: "ok", Notes: "\xff\xfe"}},
		{"TruncatedRune", SecretPayload{Password: "\xe2\x9c", Notes: "n"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Seal(dek, tc.payload); !errors.Is(err, kerrors.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func sealRaw(t *testing.T, dek, plaintext []byte) EncryptedField {
	t.Helper()
	nonce := mustNonce(t)
	ct, err := Encrypt(dek, nonce, plaintext)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	return EncryptedField{Ciphertext: ct, Nonce: nonce}
}

func FuzzOpenRejectsMutations(f *testing.F) {
	f.Add("hunter2", "notes", uint8(0))
	f.Add("", "", uint8(17))
	f.Fuzz(func(t *testing.T, password, notes string, pos uint8) {
		dek := mustKey(t)
		field, err := Seal(dek, SecretPayload{Password: password, Notes: notes})
		if errors.Is(err, kerrors.ErrInvalidInput) {
			return
		}
		if err != nil {
			t.Fatalf("seal: %v", err)
		}
		if _, err := Open(dek, field); err != nil {
			t.Fatalf("open baseline: %v", err)
		}

		mut := EncryptedField{Ciphertext: append([]byte(nil), field.Ciphertext...), Nonce: field.Nonce}
		idx := int(pos) % len(mut.Ciphertext)
		mut.Ciphertext[idx] ^= 0xFF
		if _, err := Open(dek, mut); !errors.Is(err, kerrors.ErrCorruptRecord) {
			t.Fatalf("mutation at %d: expected ErrCorruptRecord, got %v", idx, err)
		}
	})
}

func FuzzSealOpenRoundTrip(f *testing.F) {
	f.Add([]byte("hunter2"), []byte("notes"))
	f.Add([]byte("caf\xe9"), []byte("\xff\xfe"))
	f.Add([]byte(""), []byte("\u2713 \"quoted\"\n"))
	f.Fuzz(func(t *testing.T, password, notes []byte) {
		dek := mustKey(t)
		in := SecretPayload{Password: string(password), Notes: string(notes)}

		field, err := Seal(dek, in)
		if !utf8.Valid(password) || !utf8.Valid(notes) {
			if !errors.Is(err, kerrors.ErrInvalidInput) {
				t.Fatalf("invalid UTF-8: expected ErrInvalidInput, got %v", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("seal: %v", err)
		}

		out, err := Open(dek, field)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if out != in {
			t.Fatalf("round trip changed payload: in=%q out=%q", in, out)
		}
	})
}
