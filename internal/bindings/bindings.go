package bindings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"bindgen/internal/config"
	"bindgen/internal/ir"
	"bindgen/internal/mono"
)

// Bindings is the final bundle of one run. Every name in it is already in its
// exported form and Items is in dependency order; writing it only renders
// syntax.
type Bindings struct {
	Config     *config.Config
	Constants  []*ir.Item
	Globals    []*ir.Item
	Items      []*ir.Item
	Functions  []*ir.Function
	Monomorphs []mono.Entry
}

func New(cfg *config.Config, constants, globals, items []*ir.Item, functions []*ir.Function) *Bindings {
	return &Bindings{
		Config:    cfg,
		Constants: constants,
		Globals:   globals,
		Items:     items,
		Functions: functions,
	}
}

// ItemNames lists the ordered declarations by name.
func (b *Bindings) ItemNames() []string {
	names := make([]string, len(b.Items))
	for i, it := range b.Items {
		names[i] = it.Name
	}
	return names
}

// Render returns the header text.
func (b *Bindings) Render() []byte {
	w := newWriter(b)
	w.emitAll()
	return []byte(w.buf.String())
}

// Write renders the header into out.
func (b *Bindings) Write(out io.Writer) error {
	if _, err := out.Write(b.Render()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// WriteFile writes the header to path. See WriteIfChanged.
func (b *Bindings) WriteFile(path string) (bool, error) {
	return WriteIfChanged(path, b.Render())
}

// WriteIfChanged writes data to path unless the file already holds exactly
// the same bytes, so unchanged headers keep their modification time. It
// reports whether the file was written.
func WriteIfChanged(path string, data []byte) (bool, error) {
	prev, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(prev, data):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
