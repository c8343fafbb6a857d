package declset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"bindgen/internal/diag"
)

// Format is the on-disk encoding of a declaration set.
type Format uint8

const (
	FormatTOML Format = iota
	FormatMsgpack
)

var (
	ErrUnknownFormat = errors.New("unknown declaration set format")
	ErrSchema        = errors.New("unsupported declaration set schema")
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return FormatTOML, fmt.Errorf("%w: %s (expected .toml, .msgpack or .mp)", ErrUnknownFormat, path)
}

// Load reads a declaration set from path.
func Load(path string, r diag.Reporter) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(path, format, data, r)
}

// Decode parses data; name labels errors and diagnostics.
func Decode(name string, format Format, data []byte, r diag.Reporter) (*File, error) {
	f := &File{}
	switch format {
	case FormatTOML:
		meta, err := toml.Decode(string(data), f)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
		}
		for _, key := range meta.Undecoded() {
			diag.ReportWarning(r, diag.DeclInfo, diag.Subject{File: name},
				fmt.Sprintf("unknown key %q ignored", key.String())).Emit()
		}
		if f.Schema == 0 {
			f.Schema = SchemaVersion
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(f); err != nil {
			return nil, fmt.Errorf("%s: failed to decode msgpack: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFormat)
	}
	if f.Schema != SchemaVersion {
		return nil, fmt.Errorf("%s: %w %d (want %d)", name, ErrSchema, f.Schema, SchemaVersion)
	}
	return f, nil
}

// Encode writes f in the binary format a front end produces.
func Encode(w io.Writer, f *File) error {
	out := *f
	if out.Schema == 0 {
		out.Schema = SchemaVersion
	}
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode declaration set: %w", err)
	}
	return nil
}
