package io

import (
	"cmp"
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

// EncodeFile writes root to path with [tree.Encode].
func EncodeFile[V cmp.Ordered](path string, root *tree.Node[V], opts ...tree.Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := tree.Encode(f, root, opts...); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// DecodeFile reads a document written by [EncodeFile] with [tree.Decode].
func DecodeFile[V cmp.Ordered](ctx context.Context, path string, resolvers tree.Resolvers[V], opts ...tree.Option) (*tree.Node[V], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n, err := tree.Decode(ctx, f, resolvers, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
