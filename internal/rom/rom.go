// Package rom loads program images: raw files, ULZ-compressed files and
// the base64 transport encoding used to paste ROMs between hosts.
package rom

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/zboralski/tarsier/internal/ulz"
	"github.com/zboralski/tarsier/internal/uxn"
)

// Validate rejects images that do not fit between the reset vector and
// the end of memory. A ROM has no header and no checksum; size is the
// only thing to check.
func Validate(data []byte) error {
	if len(data) > uxn.MaxROMSize {
		return fmt.Errorf("rom: %d bytes exceeds the %d byte limit", len(data), uxn.MaxROMSize)
	}
	return nil
}

// ReadFile loads a ROM from disk. Files ending in .ulz are decompressed
// first.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rom: %w", err)
	}
	if strings.HasSuffix(path, ".ulz") {
		if data, err = ulz.Decode(data); err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// FromBase64 decodes a pasted transport string. Compressed transports
// (ULZ inside base64) are expanded.
func FromBase64(s string, compressed bool) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	if compressed {
		if data, err = ulz.Decode(data); err != nil {
			return nil, fmt.Errorf("decompress transport: %w", err)
		}
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ToBase64 encodes a ROM for transport, optionally ULZ-compressed.
func ToBase64(data []byte, compress bool) string {
	if compress {
		data = ulz.Encode(data)
	}
	return base64.StdEncoding.EncodeToString(data)
}
