// Package classify implements postfetch.Classifier over the post-set feature
// vector: a decision forest trained offline and a threshold fallback.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/features"
)

// Compile-time interface verification.
var _ postfetch.Classifier = (*Forest)(nil)

// Node is one decision-tree node. A node without children is a leaf
// carrying Label.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Label     int     `json:"label"`
}

func (n Node) leaf() bool {
	return n.Left <= 0 && n.Right <= 0
}

// Tree is a decision tree stored as a node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Model is the serialized form of a forest.
type Model struct {
	Version  int      `json:"version"`
	Features []string `json:"features"`
	Trees    []Tree   `json:"trees"`
}

// Forest classifies post sets by majority vote of its trees. Ties reject.
type Forest struct {
	model Model

	// columns maps model feature positions to post-set vector indexes.
	columns []int
}

// NewForest validates a model and builds a forest from it.
func NewForest(m Model) (*Forest, error) {
	if m.Version != features.Version {
		return nil, postfetch.Errorf(postfetch.EINVALID, "model feature version %d, want %d", m.Version, features.Version)
	}
	if len(m.Trees) == 0 {
		return nil, postfetch.Errorf(postfetch.EINVALID, "model has no trees")
	}

	columns := make([]int, len(m.Features))
	for i, name := range m.Features {
		idx := slices.Index(features.PostSetNames, name)
		if idx < 0 {
			return nil, postfetch.Errorf(postfetch.EINVALID, "unknown model feature %q", name)
		}
		columns[i] = idx
	}

	for ti, t := range m.Trees {
		if len(t.Nodes) == 0 {
			return nil, postfetch.Errorf(postfetch.EINVALID, "tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.leaf() {
				continue
			}
			if n.Feature < 0 || n.Feature >= len(columns) {
				return nil, postfetch.Errorf(postfetch.EINVALID, "tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return nil, postfetch.Errorf(postfetch.EINVALID, "tree %d node %d: bad children", ti, ni)
			}
		}
	}

	return &Forest{model: m, columns: columns}, nil
}

// ReadForest decodes a JSON model from r.
func ReadForest(r io.Reader) (*Forest, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, postfetch.Errorf(postfetch.EINVALID, "invalid model: %v", err)
	}
	return NewForest(m)
}

// OpenForest loads a JSON model from path.
func OpenForest(path string) (*Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	return ReadForest(f)
}

// Predict returns postfetch.Accepted when most trees vote for it.
func (f *Forest) Predict(ctx context.Context, page *postfetch.PageSample, posts []postfetch.PostSample) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	v := features.PostSet(page, posts)
	x := make([]float64, len(f.columns))
	for i, col := range f.columns {
		x[i] = v[col]
	}

	votes := 0
	for _, t := range f.model.Trees {
		if t.predict(x) == postfetch.Accepted {
			votes++
		}
	}
	if 2*votes > len(f.model.Trees) {
		return postfetch.Accepted, nil
	}
	return 0, nil
}

// predict walks the tree, going left when the feature is at or below the
// threshold.
func (t Tree) predict(x []float64) int {
	i := 0
	for {
		n := t.Nodes[i]
		if n.leaf() {
			return n.Label
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
