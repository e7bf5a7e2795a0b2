package datalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultRetention = 24 * time.Hour

	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02-15.04.05"
	// timestampLayout plus "-ffffff"
	timestampLength = len(timestampLayout) + 7

	maxCollisionAttempts = 1000
)

type AuditWriteError struct {
	Path string
	Err  error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("failed to write datalog %s: %s", e.Path, e.Err)
}

func (e *AuditWriteError) Unwrap() error {
	return e.Err
}

type Entry struct {
	Tag      string
	Filename string
	Body     []byte
}

// Datalog keeps the raw bodies of protocol exchanges in one flat directory. A nil Datalog
// is disabled and writes nothing.
type Datalog struct {
	Directory  string
	AdapterTag string
	Retention  time.Duration
	Now        func() time.Time

	collisions atomic.Uint64
}

func New(directory string, adapterTag string) (*Datalog, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, &AuditWriteError{Path: directory, Err: err}
	}

	return &Datalog{
		Directory:  directory,
		AdapterTag: adapterTag,
		Retention:  DefaultRetention,
		Now:        time.Now,
	}, nil
}

func (d *Datalog) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}

	return d.Now()
}

func (d *Datalog) retention() time.Duration {
	if d.Retention <= 0 {
		return DefaultRetention
	}

	return d.Retention
}

// Write sweeps expired entries and then stores body as a new entry for datatype
func (d *Datalog) Write(datatype string, body []byte) (*Entry, error) {
	if d == nil {
		return nil, nil
	}

	now := d.now()

	if err := d.Sweep(now); err != nil {
		return nil, err
	}

	tag := fmt.Sprintf("%s-%s", d.AdapterTag, datatype)
	contents := body
	if pretty, err := PrettyPrint(body); err == nil {
		contents = pretty
	}

	timestamp := FormatTimestamp(now)

	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		prefix := timestamp
		if attempt > 0 {
			prefix = fmt.Sprintf("%s-%d", timestamp, d.collisions.Add(1))
		}

		filename := fmt.Sprintf("%s_%s.xml", prefix, tag)
		path := filepath.Join(d.Directory, filename)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		} else if err != nil {
			return nil, &AuditWriteError{Path: path, Err: err}
		}

		_, err = file.Write(contents)
		closeErr := file.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, &AuditWriteError{Path: path, Err: err}
		}

		log.Debug().Str("file", filename).Int("bytes", len(contents)).Msg("Wrote datalog entry")

		return &Entry{Tag: tag, Filename: filename, Body: contents}, nil
	}

	return nil, &AuditWriteError{
		Path: filepath.Join(d.Directory, timestamp),
		Err:  errors.New("no free datalog filename"),
	}
}

// Sweep removes entries whose embedded timestamp is older than the retention window.
// Files named with today's date are never inspected.
func (d *Datalog) Sweep(now time.Time) error {
	entries, err := os.ReadDir(d.Directory)
	if err != nil {
		return &AuditWriteError{Path: d.Directory, Err: err}
	}

	today := now.Format(dateLayout)
	retention := d.retention()

	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() || strings.HasPrefix(name, today) {
			continue
		}

		timestamp, err := ParseTimestamp(name, now.Location())
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Skipping datalog file with unknown name")
			continue
		}

		if now.Sub(timestamp) <= retention {
			continue
		}

		path := filepath.Join(d.Directory, name)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &AuditWriteError{Path: path, Err: err}
		}

		log.Debug().Str("file", name).Msg("Removed expired datalog entry")
	}

	return nil
}

// FormatTimestamp renders t as YYYY-MM-DD-HH.MM.SS-ffffff
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s-%06d", t.Format(timestampLayout), t.Nanosecond()/int(time.Microsecond))
}

// ParseTimestamp reads the timestamp at the start of a datalog filename
func ParseTimestamp(filename string, location *time.Location) (time.Time, error) {
	if len(filename) < timestampLength {
		return time.Time{}, fmt.Errorf("filename %q too short for a timestamp", filename)
	}

	if filename[len(timestampLayout)] != '-' {
		return time.Time{}, fmt.Errorf("filename %q has no timestamp", filename)
	}

	seconds := filename[:len(timestampLayout)]
	micros := filename[len(timestampLayout)+1 : timestampLength]

	parsed, err := time.ParseInLocation(timestampLayout, seconds, location)
	if err != nil {
		return time.Time{}, err
	}

	microseconds, err := strconv.Atoi(micros)
	if err != nil {
		return time.Time{}, fmt.Errorf("filename %q has invalid microseconds: %w", filename, err)
	}

	return parsed.Add(time.Duration(microseconds) * time.Microsecond), nil
}
