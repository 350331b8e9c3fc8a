// Package file provides append-only CSV implementations of the ledger and
// suspension repositories. Each store owns its file and serializes writers
// through a mutex; readers open their own handle and may miss in-flight rows.
package file

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// appendFile is a single-writer CSV file opened in append mode per write
type appendFile struct {
	path string
	mu   sync.Mutex
}

func newAppendFile(path string) (*appendFile, error) {
	if path == "" {
		return nil, errors.New("file path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &appendFile{path: path}, nil
}

// writeRow appends one row and syncs it to disk before returning. A torn
// last line left by an earlier crash is terminated first so the new row
// starts on its own line.
func (a *appendFile) writeRow(row []string) (err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", a.path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", a.path, closeErr)
		}
	}()

	if err := terminateLastLine(f); err != nil {
		return fmt.Errorf("failed to repair %s: %w", a.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush row: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", a.path, err)
	}
	return nil
}

func terminateLastLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte{'\n'})
	return err
}

// rowFunc receives each row read from the file. A non-nil rowErr means the
// line could not be parsed as CSV. Returning false stops the read.
type rowFunc func(line int, row []string, rowErr error) bool

// readRows streams rows in file order. A missing file reads as empty. Each
// line is parsed on its own, so a broken line never absorbs the next one.
func (a *appendFile) readRows(fn rowFunc) error {
	f, err := os.Open(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", a.path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for line := 1; ; line++ {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read %s: %w", a.path, err)
		}
		if text == "" && err != nil {
			return nil
		}

		text = strings.TrimRight(text, "\r\n")
		if text != "" {
			row, rowErr := parseLine(text)
			if !fn(line, row, rowErr) {
				return nil
			}
		}
		if err != nil {
			return nil
		}
	}
}

func parseLine(text string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	return row, nil
}
