package target

import "fmt"

// Catalog is an ordered, duplicate-free list of build targets. Order matters
// only for build sequencing; every filename derived from a catalog member is
// unique within the catalog.
type Catalog []Target

// DefaultCatalog lists the platforms a release is built for when the
// manifest does not override the target list.
var DefaultCatalog = Catalog{
	"x86_64-unknown-linux-gnu",
	"x86_64-pc-windows-gnu",
	"x86_64-apple-darwin",
	"aarch64-apple-darwin",
}

// NewCatalog validates the given triples and returns them as a catalog.
// Membership and order are fixed from this point on.
func NewCatalog(targets []Target) (Catalog, error) {
	if len(targets) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[Target]struct{}, len(targets))
	catalog := make(Catalog, 0, len(targets))
	for _, t := range targets {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[t]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTarget, t.String())
		}
		seen[t] = struct{}{}
		catalog = append(catalog, t)
	}

	return catalog, nil
}

// Strings returns the raw triples in catalog order.
func (c Catalog) Strings() []string {
	out := make([]string, len(c))
	for i, t := range c {
		out[i] = t.String()
	}
	return out
}
