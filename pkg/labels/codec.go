package labels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Set file formats accepted by [ReadSet]. TOML is the authoring format,
// JSON the interchange format shared with the HTTP API.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ErrUnsupportedFormat is returned when a set file extension or format
// name is neither TOML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported set format")

// ReadSetFile reads a label set from a file, picking the codec from the
// extension (.toml or .json).
func ReadSetFile(path string) (*Set, error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadSet(f, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}

// ReadSet decodes a label set from r in the given format ("toml" or
// "json"). The decoded set is not validated; [Arrange] validates on use.
func ReadSet(r io.Reader, format string) (*Set, error) {
	var s Set
	switch strings.ToLower(format) {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &s, nil
}

// MarshalSet converts a set to JSON bytes. The encoding is deterministic
// for a given set, which makes it usable as cache key material.
func MarshalSet(s *Set) ([]byte, error) {
	return json.Marshal(s)
}

// MarshalResult converts a result to indented JSON bytes.
func MarshalResult(res *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeResultTo(res, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalResult decodes a result from JSON bytes, the inverse of
// [MarshalResult]. The cache layer round-trips results through it.
func UnmarshalResult(data []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &res, nil
}

// WriteResult writes a result as indented JSON to w.
func WriteResult(res *Result, w io.Writer) error {
	return writeResultTo(res, w)
}

// WriteResultFile writes a result to a JSON file at path.
func WriteResultFile(res *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeResultTo(res, f)
}

func writeResultTo(res *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
