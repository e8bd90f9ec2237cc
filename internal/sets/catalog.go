package sets

import (
	_ "embed"
	"errors"

	"github.com/tidwall/gjson"
)

//go:embed data/sets.json
var embeddedCatalog []byte

// Catalog is the immutable, validated list of wearable sets.
type Catalog struct {
	sets []Definition
	byID map[string][]int // id -> positions in sets
	dups []string
}

type options struct {
	uniqueIDs bool
}

// Option configures catalog construction.
type Option func(*options)

// WithUniqueIDs fails construction when two entries slug to the same id.
func WithUniqueIDs() Option {
	return func(o *options) { o.uniqueIDs = true }
}

// NewCatalog validates every raw entry in data. The first malformed entry
// aborts construction with a *ValidationError.
func NewCatalog(data []byte, opts ...Option) (*Catalog, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if err := checkShape(data); err != nil {
		return nil, err
	}

	c := &Catalog{byID: make(map[string][]int)}
	var perr error
	gjson.ParseBytes(data).ForEach(func(key, v gjson.Result) bool {
		idx := int(key.Int())
		def, err := ParseDefinition(v)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Index = idx
			}
			perr = err
			return false
		}
		def.ID = Slug(def.Name)
		c.byID[def.ID] = append(c.byID[def.ID], len(c.sets))
		c.sets = append(c.sets, def)
		return true
	})
	if perr != nil {
		return nil, perr
	}

	for i, def := range c.sets {
		pos := c.byID[def.ID]
		if len(pos) < 2 || pos[0] != i {
			continue
		}
		if o.uniqueIDs {
			return nil, &DuplicateIDError{ID: def.ID, Indexes: append([]int(nil), pos...)}
		}
		c.dups = append(c.dups, def.ID)
	}
	return c, nil
}

// Embedded returns the catalog compiled into the binary.
func Embedded(opts ...Option) (*Catalog, error) {
	return NewCatalog(embeddedCatalog, opts...)
}

// Len is the number of sets.
func (c *Catalog) Len() int { return len(c.sets) }

// Sets returns a copy of every set in catalog order.
func (c *Catalog) Sets() []Definition {
	out := make([]Definition, len(c.sets))
	for i := range c.sets {
		out[i] = c.sets[i].clone()
	}
	return out
}

// At returns the set at catalog position i without copying its wearable list.
// Callers must not modify it.
func (c *Catalog) At(i int) Definition { return c.sets[i] }

// Find returns the first set with the given id.
func (c *Catalog) Find(id string) (Definition, bool) {
	pos, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.sets[pos[0]].clone(), true
}

// DuplicateIDs lists ids shared by more than one entry, in first-seen order.
func (c *Catalog) DuplicateIDs() []string {
	return append([]string(nil), c.dups...)
}
