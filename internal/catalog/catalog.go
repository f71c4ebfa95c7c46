package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

//go:embed resources/*.yaml
var embedded embed.FS

// Catalog indexes resource definitions by name.
type Catalog struct {
	resources map[string]*Resource
}

func New() *Catalog {
	return &Catalog{resources: map[string]*Resource{}}
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	c := New()
	if err := c.LoadFS(embedded, "resources"); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add inserts r, replacing an entry with the same name.
func (c *Catalog) Add(r *Resource) error {
	r.applyDefaults()
	if err := r.Validate(); err != nil {
		return srvErrors.NewSuiteDefinitionError(r.Name, "%v", err)
	}
	if _, exists := c.resources[r.Name]; exists {
		zap.S().Named("catalog").Debugw("overriding suite definition", "resource", r.Name)
	}
	c.resources[r.Name] = r
	return nil
}

// LoadDir overlays every *.yaml / *.yml file of dir.
func (c *Catalog) LoadDir(dir string) error {
	return c.LoadFS(os.DirFS(dir), ".")
}

func (c *Catalog) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read suite definitions: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch path.Ext(e.Name()) {
		case ".yaml", ".yml":
		default:
			continue
		}
		f, err := fsys.Open(path.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		err = c.Decode(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
	}
	return nil
}

// Decode reads one or more YAML documents, each describing a resource.
func (c *Catalog) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	for {
		var res Resource
		err := dec.Decode(&res)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to decode suite definition: %w", err)
		}
		if err := c.Add(&res); err != nil {
			return err
		}
	}
}

// Get looks a resource up by name or JSON:API type.
func (c *Catalog) Get(name string) (*Resource, bool) {
	if r, ok := c.resources[name]; ok {
		return r, true
	}
	for _, r := range c.resources {
		if r.Type == name {
			return r, true
		}
	}
	return nil, false
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.resources))
	for name := range c.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Resources() []*Resource {
	out := make([]*Resource, 0, len(c.resources))
	for _, name := range c.Names() {
		out = append(out, c.resources[name])
	}
	return out
}

// Select returns the named resources, or all of them when names is empty.
func (c *Catalog) Select(names ...string) ([]*Resource, error) {
	if len(names) == 0 {
		return c.Resources(), nil
	}
	out := make([]*Resource, 0, len(names))
	for _, name := range names {
		r, ok := c.Get(name)
		if !ok {
			return nil, srvErrors.NewSuiteNotFoundError(name)
		}
		out = append(out, r)
	}
	return out, nil
}

// Validate checks references between entries: fixture resources must exist.
func (c *Catalog) Validate() error {
	var errs []error
	for _, r := range c.Resources() {
		for _, f := range r.Fixtures {
			if f.Resource == "" {
				continue
			}
			fr, ok := c.Get(f.Resource)
			if !ok {
				errs = append(errs, srvErrors.NewSuiteDefinitionError(r.Name, "fixture %s uses unknown resource %s", f.Name, f.Resource))
				continue
			}
			for flag := range f.Values {
				if !fr.HasFlag(flag) {
					errs = append(errs, srvErrors.NewSuiteDefinitionError(r.Name, "fixture %s sets undeclared flag --%s of %s", f.Name, flag, fr.Name))
				}
			}
		}
	}
	return errors.Join(errs...)
}
