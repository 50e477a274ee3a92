package snapshot

import (
	"github.com/0glabs/0g-namespace/namespace"
	"github.com/pkg/errors"
)

// Load restores the tree held by store and reconciles its physical mirror.
// Without a stored snapshot a fresh tree holding only the root is returned,
// along with an empty report.
func Load(store Store, mirror *namespace.Mirror, opts ...namespace.Option) (*namespace.Tree, *Report, error) {
	node, err := store.Load()
	if errors.Is(err, ErrNoSnapshot) {
		tree, err := namespace.New(mirror, opts...)
		if err != nil {
			return nil, nil, err
		}
		return tree, &Report{Checked: 1}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	tree, records, err := Deserialize(node, mirror, opts...)
	if err != nil {
		return nil, nil, err
	}

	return tree, Reconcile(tree, records), nil
}

// Save serializes the whole tree into store.
func Save(store Store, tree *namespace.Tree) error {
	if err := store.Save(Serialize(tree)); err != nil {
		return errors.WithMessage(err, "failed to save snapshot")
	}
	return nil
}
