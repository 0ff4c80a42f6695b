package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirseerhq/hacktoberfest-relay/internal/fetcher"
)

var _ ProjectWriter = (*Writer)(nil)

// Writer writes projects as NDJSON. It is safe for concurrent use.
type Writer struct {
	mu        sync.Mutex
	buf       *bufio.Writer
	encoder   *json.Encoder
	count     int
	closeFunc func() error
	closed    bool
}

// NewWriter creates a new NDJSON writer that writes to the specified output.
// Output is buffered until Close.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	return &Writer{
		buf:     buf,
		encoder: json.NewEncoder(buf),
	}
}

// NewFileWriter creates a new NDJSON writer that writes to a file.
// The caller must call Close() when done to flush and close the file.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := NewWriter(file)
	w.closeFunc = file.Close
	return w, nil
}

// Write writes a single project as one NDJSON line.
func (w *Writer) Write(project fetcher.Project) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.write(project)
}

// WriteAll writes projects in order.
func (w *Writer) WriteAll(projects []fetcher.Project) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range projects {
		if err := w.write(projects[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) write(project fetcher.Project) error {
	if w.closed {
		return fmt.Errorf("failed to write record: writer is closed")
	}
	if err := w.encoder.Encode(project); err != nil {
		return fmt.Errorf("failed to write record %s#%d: %w", project.RepoNameWithOwner, project.IssueNumber, err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes buffered records and closes the underlying file, if any.
// Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	flushErr := w.buf.Flush()
	if w.closeFunc != nil {
		if err := w.closeFunc(); err != nil && flushErr == nil {
			return fmt.Errorf("failed to close output: %w", err)
		}
	}
	if flushErr != nil {
		return fmt.Errorf("failed to flush output: %w", flushErr)
	}
	return nil
}
