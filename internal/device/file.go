package device

import (
	"fmt"
	"os"
	"strings"
)

// FileInput reads a sensor value from a file, e.g. a sysfs hwmon node or
// a 1-wire temperature device. The file is re-read on every sample and
// its contents are trimmed of surrounding whitespace.
type FileInput struct {
	path string
	last string
	read bool
}

// NewFileInput creates an Input reading from the file at path.
func NewFileInput(path string) *FileInput {
	return &FileInput{path: path}
}

// Read returns the trimmed contents of the file.
func (i *FileInput) Read() (string, error) {
	data, err := os.ReadFile(i.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", i.path, err)
	}
	v := strings.TrimSpace(string(data))
	i.last = v
	i.read = true
	return v, nil
}

// State returns the last value read.
func (i *FileInput) State() (string, bool) {
	return i.last, i.read
}
