package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatDescriptors formats a list of descriptors as JSON
func (f *Formatter) FormatDescriptors(descriptors []DescriptorDTO) error {
	return f.encode(descriptors)
}

// FormatThings formats a list of things as JSON
func (f *Formatter) FormatThings(things []ThingDTO) error {
	return f.encode(things)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
