package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"kaamos/internal/domain/survival"
)

const (
	EventsFile = "events.yaml"
	ItemsFile  = "items.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

type eventsDocument struct {
	Flags  []survival.Flag `yaml:"flags"`
	Events []Event         `yaml:"events"`
}

type itemsDocument struct {
	Items []Item `yaml:"items"`
}

// LoadDefault returns the catalog shipped with the binary.
func LoadDefault() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir reads events.yaml and items.yaml from dir. A file missing from dir
// falls back to the embedded copy.
func LoadDir(dir string) (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(overlayFS{primary: os.DirFS(dir), fallback: sub})
}

// Load parses a catalog from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var events eventsDocument
	if err := decodeFile(fsys, EventsFile, &events); err != nil {
		return nil, err
	}
	var items itemsDocument
	if err := decodeFile(fsys, ItemsFile, &items); err != nil {
		return nil, err
	}
	return NewCatalog(events.Events, items.Items, events.Flags), nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

type overlayFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return o.fallback.Open(name)
	}
	return f, err
}
