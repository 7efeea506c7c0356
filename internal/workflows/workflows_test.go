package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/strongbox/internal/audit"
	"github.com/PolarWolf314/strongbox/internal/configs"
	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/passwords"
	"github.com/PolarWolf314/strongbox/internal/secrets"
)

var master = []byte("correct horse")

// useTempVault points the user settings at a temporary directory and writes
// a config.toml with the minimum iteration count so tests stay fast.
func useTempVault(t *testing.T) string {
	t.Helper()
	original := configs.UserStrongboxSettings
	dir := t.TempDir()
	configs.UserStrongboxSettings = &configs.UserSettings{
		ConfigDir: filepath.Join(dir, "config"),
		DataDir:   filepath.Join(dir, "data"),
		Username:  "tester",
	}
	t.Cleanup(func() { configs.UserStrongboxSettings = original })

	config := configs.DefaultConfig()
	config.Vault.KDFIterations = secrets.MinIterations
	config.Backup.KDFIterations = secrets.MinIterations
	config.Backup.Directory = filepath.Join(dir, "backups")
	if err := configs.SaveConfig(config); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	return dir
}

func initVault(t *testing.T) string {
	t.Helper()
	dir := useTempVault(t)
	if _, err := Init(context.Background(), InitOptions{MasterPassword: master}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return dir
}

func addRecord(t *testing.T, input passwords.CreateInput) uint64 {
	t.Helper()
	result, err := Add(context.Background(), AddOptions{MasterPassword: master, Input: input})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return result.ID
}

func TestInit_Twice(t *testing.T) {
	initVault(t)

	_, err := Init(context.Background(), InitOptions{MasterPassword: []byte("other")})
	if !errors.Is(err, kerrors.ErrAlreadyInitialized) {
		t.Errorf("Expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestInit_CreatesVaultFile(t *testing.T) {
	useTempVault(t)

	result, err := Init(context.Background(), InitOptions{MasterPassword: master})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	info, err := os.Stat(result.VaultPath)
	if err != nil {
		t.Fatalf("Expected vault file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %04o", info.Mode().Perm())
	}
	if result.Iterations != secrets.MinIterations {
		t.Errorf("Expected %d iterations, got %d", secrets.MinIterations, result.Iterations)
	}
}

func TestRecords_Lifecycle(t *testing.T) {
	ctx := context.Background()
	initVault(t)

	id := addRecord(t, passwords.CreateInput{
		Title: "GitHub", Username: "octo", Password: "hunter2", Category: "work",
	})
	addRecord(t, passwords.CreateInput{Title: "Bank", Password: "1234", Category: "finance"})

	list, err := List(ctx, ListOptions{MasterPassword: master, Query: "git"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].ID != id {
		t.Fatalf("Expected only GitHub, got %+v", list.Entries)
	}

	newPassword := "hunter3"
	edited, err := Edit(ctx, EditOptions{
		MasterPassword: master,
		Input:          passwords.UpdateInput{ID: id, Password: &newPassword},
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if edited.Entry.Password != newPassword || edited.Entry.Username != "octo" {
		t.Errorf("Unexpected entry after edit: %+v", edited.Entry)
	}

	if err := Remove(ctx, RemoveOptions{MasterPassword: master, ID: id}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	_, err = Show(ctx, ShowOptions{MasterPassword: master, ID: id})
	if !errors.Is(err, kerrors.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestRecords_WrongPassword(t *testing.T) {
	initVault(t)

	_, err := List(context.Background(), ListOptions{MasterPassword: []byte("wrong")})
	if !errors.Is(err, kerrors.ErrWrongPassword) {
		t.Errorf("Expected ErrWrongPassword, got %v", err)
	}
}

func TestRecords_NotInitialized(t *testing.T) {
	useTempVault(t)

	_, err := List(context.Background(), ListOptions{MasterPassword: master})
	if !errors.Is(err, kerrors.ErrVaultNotInitialized) {
		t.Errorf("Expected ErrVaultNotInitialized, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	initVault(t)
	addRecord(t, passwords.CreateInput{Title: "Mail", Password: "secret"})

	_, err := ChangePassword(ctx, ChangePasswordOptions{OldPassword: []byte("wrong"), NewPassword: []byte("new")})
	if !errors.Is(err, kerrors.ErrWrongPassword) {
		t.Fatalf("Expected ErrWrongPassword, got %v", err)
	}

	result, err := ChangePassword(ctx, ChangePasswordOptions{OldPassword: master, NewPassword: []byte("new")})
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if result.Records != 1 {
		t.Errorf("Expected 1 record, got %d", result.Records)
	}

	if _, err := List(ctx, ListOptions{MasterPassword: master}); !errors.Is(err, kerrors.ErrWrongPassword) {
		t.Errorf("Expected old password to fail, got %v", err)
	}
	list, err := List(ctx, ListOptions{MasterPassword: []byte("new")})
	if err != nil {
		t.Fatalf("List with new password failed: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].Password != "secret" {
		t.Errorf("Expected record to survive rotation, got %+v", list.Entries)
	}
}

func TestExportImport_AcrossVaults(t *testing.T) {
	ctx := context.Background()
	dir := initVault(t)
	addRecord(t, passwords.CreateInput{Title: "GitHub", Username: "octo", Password: "hunter2", Category: "work"})
	addRecord(t, passwords.CreateInput{Title: "Bank", Password: "1234", Notes: "pin", Category: "finance"})

	backupPath := filepath.Join(dir, "backup.json")
	exported, err := Export(ctx, ExportOptions{
		MasterPassword: master,
		BackupPassword: []byte("backup pw"),
		OutputPath:     backupPath,
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if exported.Count != 2 || exported.Skipped != 0 {
		t.Errorf("Expected 2 exported and 0 skipped, got %+v", exported)
	}
	info, err := os.Stat(backupPath)
	if err != nil {
		t.Fatalf("Expected backup file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %04o", info.Mode().Perm())
	}

	// Restore into a second vault with a different master password.
	useTempVault(t)
	other := []byte("other master")
	if _, err := Init(ctx, InitOptions{MasterPassword: other}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	_, err = Import(ctx, ImportOptions{
		MasterPassword: other,
		BackupPassword: []byte("wrong"),
		InputPath:      backupPath,
	})
	if !errors.Is(err, kerrors.ErrWrongPassword) || !errors.Is(err, kerrors.ErrWrongBackupPassword) {
		t.Fatalf("Expected ErrWrongBackupPassword for bad backup password, got %v", err)
	}

	_, err = Import(ctx, ImportOptions{
		MasterPassword: []byte("wrong"),
		BackupPassword: []byte("backup pw"),
		InputPath:      backupPath,
	})
	if !errors.Is(err, kerrors.ErrWrongPassword) || errors.Is(err, kerrors.ErrWrongBackupPassword) {
		t.Fatalf("Expected a master password error, got %v", err)
	}

	preview, err := Import(ctx, ImportOptions{
		MasterPassword: other,
		BackupPassword: []byte("backup pw"),
		InputPath:      backupPath,
		DryRun:         true,
	})
	if err != nil {
		t.Fatalf("Dry run failed: %v", err)
	}
	if !preview.DryRun || preview.Imported != 2 || preview.Total != 2 {
		t.Errorf("Unexpected dry run result: %+v", preview)
	}
	list, err := List(ctx, ListOptions{MasterPassword: other})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list.Entries) != 0 {
		t.Fatalf("Expected dry run to leave the vault empty, got %d entries", len(list.Entries))
	}

	imported, err := Import(ctx, ImportOptions{
		MasterPassword: other,
		BackupPassword: []byte("backup pw"),
		InputPath:      backupPath,
		Mode:           passwords.ImportModeMerge,
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.Imported != 2 || imported.Skipped != 0 {
		t.Errorf("Expected 2 imported, got %+v", imported)
	}

	again, err := Import(ctx, ImportOptions{
		MasterPassword: other,
		BackupPassword: []byte("backup pw"),
		InputPath:      backupPath,
		Mode:           passwords.ImportModeMerge,
	})
	if err != nil {
		t.Fatalf("Second import failed: %v", err)
	}
	if again.Imported != 0 || again.Skipped != 2 {
		t.Errorf("Expected every entry to be skipped as a duplicate, got %+v", again)
	}

	list, err = List(ctx, ListOptions{MasterPassword: other, Query: "bank"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].Notes != "pin" || list.Entries[0].Password != "1234" {
		t.Errorf("Unexpected imported entry: %+v", list.Entries)
	}
}

func TestImport_Overwrite(t *testing.T) {
	ctx := context.Background()
	dir := initVault(t)
	addRecord(t, passwords.CreateInput{Title: "Kept"})

	backupPath := filepath.Join(dir, "backup.json")
	if _, err := Export(ctx, ExportOptions{MasterPassword: master, BackupPassword: []byte("b"), OutputPath: backupPath}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	addRecord(t, passwords.CreateInput{Title: "Dropped"})

	result, err := Import(ctx, ImportOptions{
		MasterPassword: master,
		BackupPassword: []byte("b"),
		InputPath:      backupPath,
		Mode:           passwords.ImportModeOverwrite,
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Expected 1 record after overwrite, got %d", result.Imported)
	}

	list, err := List(ctx, ListOptions{MasterPassword: master})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].Title != "Kept" {
		t.Errorf("Expected only the backed up record, got %+v", list.Entries)
	}
}

func TestImport_Errors(t *testing.T) {
	ctx := context.Background()
	dir := initVault(t)

	_, err := Import(ctx, ImportOptions{MasterPassword: master, BackupPassword: []byte("b"), InputPath: filepath.Join(dir, "missing.json")})
	if !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}

	junk := filepath.Join(dir, "junk.json")
	if err := os.WriteFile(junk, []byte("not a backup"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err = Import(ctx, ImportOptions{MasterPassword: master, BackupPassword: []byte("b"), InputPath: junk})
	if !errors.Is(err, kerrors.ErrMalformedFile) {
		t.Errorf("Expected ErrMalformedFile, got %v", err)
	}
}

func TestExport_DefaultPath(t *testing.T) {
	dir := initVault(t)

	result, err := Export(context.Background(), ExportOptions{MasterPassword: master, BackupPassword: []byte("b")})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Dir(result.OutputPath) != filepath.Join(dir, "backups") {
		t.Errorf("Expected backup in the configured directory, got %s", result.OutputPath)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Errorf("Expected backup file: %v", err)
	}
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	useTempVault(t)

	status, err := Status(ctx, StatusOptions{})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Initialized {
		t.Error("Expected uninitialized vault")
	}
	if _, err := os.Stat(status.VaultPath); !os.IsNotExist(err) {
		t.Errorf("Status must not create the vault file, stat returned %v", err)
	}

	if _, err := Init(ctx, InitOptions{MasterPassword: master}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	addRecord(t, passwords.CreateInput{Title: "One"})

	status, err = Status(ctx, StatusOptions{})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.Initialized || status.Records != 1 {
		t.Errorf("Unexpected status: %+v", status)
	}
	if status.KDF != secrets.KDFName || status.Iterations != secrets.MinIterations {
		t.Errorf("Unexpected KDF parameters: %s/%d", status.KDF, status.Iterations)
	}
	if status.Upgradable {
		t.Error("Expected iterations to match config")
	}
}

func TestDoctor(t *testing.T) {
	ctx := context.Background()
	initVault(t)
	addRecord(t, passwords.CreateInput{Title: "One", Password: "x"})

	result, err := Doctor(ctx, DoctorOptions{MasterPassword: master})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if result.Summary.Errors != 0 || result.Summary.Warnings != 0 {
		t.Errorf("Expected a healthy vault, got %+v", result.Checks)
	}

	result, err = Doctor(ctx, DoctorOptions{})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if result.Summary.Warnings != 2 || result.Summary.Errors != 0 {
		t.Errorf("Expected unlock and record checks to be skipped, got %+v", result.Checks)
	}

	result, err = Doctor(ctx, DoctorOptions{MasterPassword: []byte("wrong")})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if result.Summary.Errors != 1 {
		t.Errorf("Expected unlock to fail, got %+v", result.Checks)
	}
}

func TestDoctor_NoVault(t *testing.T) {
	useTempVault(t)

	result, err := Doctor(context.Background(), DoctorOptions{MasterPassword: master})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if result.Checks[1].Status != CheckError {
		t.Errorf("Expected vault file check to fail, got %+v", result.Checks[1])
	}
	if len(result.Suggestions) == 0 {
		t.Error("Expected a suggestion to run init")
	}
}

func TestWipe(t *testing.T) {
	ctx := context.Background()
	initVault(t)
	addRecord(t, passwords.CreateInput{Title: "One"})

	if _, err := Wipe(ctx, WipeOptions{MasterPassword: []byte("wrong")}); !errors.Is(err, kerrors.ErrWrongPassword) {
		t.Fatalf("Expected ErrWrongPassword, got %v", err)
	}

	result, err := Wipe(ctx, WipeOptions{MasterPassword: master})
	if err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}
	if result.Removed != 1 {
		t.Errorf("Expected 1 removed record, got %d", result.Removed)
	}

	status, err := Status(ctx, StatusOptions{})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Initialized || status.Records != 0 {
		t.Errorf("Expected an empty uninitialized vault, got %+v", status)
	}

	if _, err := Init(ctx, InitOptions{MasterPassword: []byte("fresh")}); err != nil {
		t.Errorf("Expected init to succeed after wipe, got %v", err)
	}
}

func TestLog(t *testing.T) {
	ctx := context.Background()
	initVault(t)
	id := addRecord(t, passwords.CreateInput{Title: "One"})
	if _, err := Show(ctx, ShowOptions{MasterPassword: master, ID: id}); err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	result, err := Log(ctx, LogOptions{})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if result.TotalEntriesBeforeFilter != 3 {
		t.Fatalf("Expected init, add and show entries, got %+v", result.Entries)
	}
	for _, e := range result.Entries {
		if e.User != "tester" {
			t.Errorf("Expected user tester, got %q", e.User)
		}
	}

	result, err = Log(ctx, LogOptions{Operations: "add, show", Reverse: true, Limit: 1})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Operation != audit.OpShow {
		t.Errorf("Expected the most recent show entry, got %+v", result.Entries)
	}

	_, err = Log(ctx, LogOptions{Since: "yesterday"})
	if !errors.Is(err, kerrors.ErrInvalidDateFormat) {
		t.Errorf("Expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestLog_NoLog(t *testing.T) {
	useTempVault(t)

	_, err := Log(context.Background(), LogOptions{})
	if !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Errorf("Expected ErrNoFilesFound, got %v", err)
	}
}

func TestAudit_Disabled(t *testing.T) {
	ctx := context.Background()
	useTempVault(t)
	config, err := configs.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	config.Audit.Enabled = false
	if err := configs.SaveConfig(config); err != nil {
		t.Fatal(err)
	}

	if _, err := Init(ctx, InitOptions{MasterPassword: master}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := os.Stat(audit.LogPath()); !os.IsNotExist(err) {
		t.Errorf("Expected no audit log, stat returned %v", err)
	}
}

func TestFormatDetails(t *testing.T) {
	tests := []struct {
		entry audit.Entry
		want  string
	}{
		{audit.Entry{Operation: audit.OpAdd, RecordID: 3, Title: "Mail"}, "#3 Mail"},
		{audit.Entry{Operation: audit.OpRemove, RecordID: 3}, "#3"},
		{audit.Entry{Operation: audit.OpImport, Mode: "merge", Count: 2, InputPath: "b.json"}, "merge 2 entries from b.json"},
		{audit.Entry{Operation: audit.OpInit}, ""},
	}
	for _, tt := range tests {
		if got := FormatDetails(tt.entry); got != tt.want {
			t.Errorf("FormatDetails(%s) = %q, want %q", tt.entry.Operation, got, tt.want)
		}
	}
}
