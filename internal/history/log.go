// Package history appends and reads the deployment log: one record per
// pipeline run, with target, environment, action, status, and duration.
package history

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/util"
)

// logFileName is the history file inside the shipit home directory.
const logFileName = "history.yaml"

// Statuses a record can carry.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Record is one deployment log entry.
type Record struct {
	Time     time.Time     `yaml:"time"`
	Org      string        `yaml:"org,omitempty"`
	Target   string        `yaml:"target"`
	Env      string        `yaml:"env"`
	Pipeline string        `yaml:"pipeline"`
	Action   string        `yaml:"action"`
	Status   string        `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
}

// Log appends records to and reads records from the history file.
type Log struct {
	dir string
}

// NewLog creates a log rooted at the shipit home directory.
func NewLog() *Log {
	return &Log{dir: util.HomeDir()}
}

// NewLogAt creates a log rooted at dir. Used by tests.
func NewLogAt(dir string) *Log {
	return &Log{dir: dir}
}

// Path returns the history file path.
func (l *Log) Path() string {
	return filepath.Join(l.dir, logFileName)
}

// Append adds one record to the history file as a YAML document.
func (l *Log) Append(rec Record) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create shipit home directory",
			"Check permissions on "+l.dir)
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot serialize history record", "")
	}

	f, err := os.OpenFile(l.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open history file",
			"Check permissions on "+l.Path())
	}
	defer f.Close()

	if _, err := f.WriteString("---\n" + string(data)); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot append history record",
			"Check disk space and permissions on "+l.Path())
	}
	return nil
}

// Load reads all records, oldest first. A missing file is an empty log.
func (l *Log) Load() ([]Record, error) {
	data, err := os.ReadFile(l.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot read history file",
			"Check permissions on "+l.Path())
	}

	var records []Record
	for _, doc := range strings.Split(string(data), "\n---\n") {
		doc = strings.TrimPrefix(doc, "---\n")
		if strings.TrimSpace(doc) == "" {
			continue
		}
		var rec Record
		if err := yaml.Unmarshal([]byte(doc), &rec); err != nil {
			// One corrupt record shouldn't hide the rest.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Tail returns the most recent n records, newest first.
func (l *Log) Tail(n int) ([]Record, error) {
	records, err := l.Load()
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, n)
	for i := len(records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, records[i])
	}
	return out, nil
}
