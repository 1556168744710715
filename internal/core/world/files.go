package world

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/pkg/encoding"
)

// Decode reads one map document and validates it. Decoding failures wrap both
// errs.ErrMalformedGrid and the decoder's error.
func Decode(r io.Reader, format encoding.Format) (*TileMap, error) {
	var m TileMap
	if err := encoding.Decode(r, format, &m); err != nil {
		return nil, fmt.Errorf("decode %s map: %w: %w", format, errs.ErrMalformedGrid, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.TileSize == 0 {
		m.TileSize = DefaultTileSize
	}
	return &m, nil
}

// LoadFile reads a .json, .yaml or .yml map. A map without a name is named
// after its file.
func LoadFile(path string) (*TileMap, error) {
	format, err := encoding.FormatFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// SaveFile writes m in the format picked by the path extension, creating
// parent directories as needed.
func SaveFile(path string, m *TileMap) error {
	if err := m.Validate(); err != nil {
		return err
	}
	format, err := encoding.FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	if err := encoding.Encode(f, format, m); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode map %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	return nil
}
