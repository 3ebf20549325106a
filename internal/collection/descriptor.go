// Package collection runs the batch pipelines over input directories: one
// outline per PDF, and one analysis per collection descriptor.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInputNotFound marks a missing PDF, descriptor or PDFs directory.
	ErrInputNotFound = errors.New("input not found")

	// ErrMalformedMetadata marks a descriptor without a persona role or task.
	ErrMalformedMetadata = errors.New("malformed metadata")
)

// Descriptor is the JSON job description shipped with each collection.
type Descriptor struct {
	Persona     Persona       `json:"persona"`
	JobToBeDone Task          `json:"job_to_be_done"`
	Documents   []DocumentRef `json:"documents" validate:"dive"`
}

type Persona struct {
	Role string `json:"role" validate:"required"`
}

type Task struct {
	Task string `json:"task" validate:"required"`
}

type DocumentRef struct {
	Filename string `json:"filename" validate:"required"`
	Title    string `json:"title"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadDescriptor reads and checks a descriptor. Role and task are trimmed
// before the required check, so whitespace-only values are rejected.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMetadata, filepath.Base(path), err)
	}
	d.Persona.Role = strings.TrimSpace(d.Persona.Role)
	d.JobToBeDone.Task = strings.TrimSpace(d.JobToBeDone.Task)

	if err := validate.Struct(&d); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMetadata, filepath.Base(path), err)
	}
	return &d, nil
}

// findDescriptor returns the first *.json file in dir, by name.
func findDescriptor(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no descriptor in %s", ErrInputNotFound, dir)
	}
	return matches[0], nil
}
