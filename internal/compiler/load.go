package compiler

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// LoadFile reads a settings document, choosing the decoder by extension.
func LoadFile(path string) (*Document, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		return LoadCUE(path)
	case ".yaml", ".yml", ".json":
		return LoadYAML(path)
	default:
		return nil, ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("unsupported settings format %q (want .cue, .yaml, .yml or .json)", ext),
			Code:    ErrUnsupportedFormat,
		}
	}
}

// LoadCUE reads a CUE settings file and checks it against #Settings.
// Uses CUE SDK's Go API directly (not CLI subprocess).
func LoadCUE(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return compileCUE(data, path)
}

func compileCUE(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return decodeCUE(v)
}

// decodeCUE checks v against #Settings in v's own context and decodes it.
func decodeCUE(v cue.Value) (*Document, error) {
	schema := v.Context().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	settings := schema.LookupPath(cue.ParsePath("#Settings")).Unify(v)
	if err := settings.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc Document
	if err := settings.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	return &doc, nil
}

// LoadYAML reads a YAML (or JSON) settings file. Unknown fields are
// rejected, matching the closed CUE schema.
func LoadYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return decodeYAML(data, path)
}

func decodeYAML(data []byte, filename string) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, &CompileError{
			Field:   "yaml",
			Message: fmt.Sprintf("%s: %v", filename, err),
		}
	}
	return &doc, nil
}
