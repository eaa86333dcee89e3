package algebra

import (
	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/object"
)

// renderString is the structural-equality yardstick this package uses
// throughout: two nodes are the same shape if they render identically
// under default options, avoiding a separate deep-equal walk for every
// concrete Value variant a leaf might hold.
func renderString(v object.Value) string {
	p := object.NewPrinter(object.DefaultRenderOpts())
	v.Render(p)
	return p.String()
}

// Equal reports whether two expression trees are the same shape: same
// operator/arity recursively, or leaves that render identically.
func Equal(a, b *container.Expression) bool {
	if a == nil || b == nil {
		return a == b
	}
	if (a.Leaf == nil) != (b.Leaf == nil) {
		return false
	}
	if a.Leaf != nil {
		return renderString(a.Leaf) == renderString(b.Leaf)
	}
	if a.Op != b.Op || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !Equal(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}
