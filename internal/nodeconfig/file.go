package nodeconfig

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lowapp/nodesim/internal/logging"
)

// Record files are plain text, one key:value pair per line, with no header,
// checksum, or schema version. The format matches what the nodes exchange
// over the console, so a record file can be assembled by hand.

// Load reads a record file. Lines that do not parse (no separator, unknown
// key, malformed value) are logged and skipped; the remaining lines still
// apply. Load fails only on I/O errors.
func Load(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rec := NewRecord()
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			logging.LogSkippedLine(path, lineNum, "no key:value separator")
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if err := rec.Set(key, value); err != nil {
			logging.LogSkippedLine(path, lineNum, err.Error())
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	return rec, nil
}

// Save writes the record to path, one key:value pair per line in canonical
// field order. The write is atomic: a temporary file is written first and
// renamed over the destination, so a crash never leaves a half-written
// record behind.
func (r *Record) Save(path string) error {
	var b strings.Builder
	for i := range fieldTable {
		b.WriteString(fieldTable[i].key)
		b.WriteString(":")
		b.WriteString(fieldTable[i].render(r))
		b.WriteString("\n")
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write temporary record file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Clean up temp file on error
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save record file: %w", err)
	}

	return nil
}
