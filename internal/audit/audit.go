package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/strongbox/internal/configs"
	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/utils"
)

// Operation names recorded in the log.
const (
	OpInit           = "init"
	OpChangePassword = "passwd"
	OpAdd            = "add"
	OpEdit           = "edit"
	OpRemove         = "rm"
	OpShow           = "show"
	OpExport         = "export"
	OpImport         = "import"
	OpWipe           = "wipe"
)

// Entry represents a single audit log entry. It never carries secret values.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // OS user performing the action.
	Host      string `json:"host,omitempty"`
	UUID      string `json:"uuid"` // Installation UUID from config.toml.
	Operation string `json:"op"`

	// Optional fields depending on operation.
	RecordID   uint64 `json:"record_id,omitempty"`   // For add/edit/rm/show.
	Title      string `json:"title,omitempty"`       // For add/edit.
	Mode       string `json:"mode,omitempty"`        // For import (merge/overwrite).
	Count      int    `json:"count,omitempty"`       // For export/import.
	Skipped    int    `json:"skipped,omitempty"`     // For export/import.
	OutputPath string `json:"output_path,omitempty"` // For export.
	InputPath  string `json:"input_path,omitempty"`  // For import.
}

// Log appends an entry to the audit log.
// Failures are ignored: an operation never fails because audit logging did.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser returns an entry for op with the user and installation fields filled in.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op, User: configs.UserStrongboxSettings.Username}
	if host, err := utils.GetHostname(); err == nil {
		entry.Host = host
	}

	config, err := configs.LoadConfig()
	if err != nil {
		return entry
	}
	entry.UUID = config.Install.UUID
	return entry
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return configs.UserStrongboxSettings.AuditLogPath()
}

// ReadEntries reads all entries from the audit log.
// Returns ErrNoFilesFound if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, kerrors.ErrNoFilesFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
