// Package scene is the retained render target a chart draws into. A draw
// selects or creates nodes by key, so redrawing updates the existing tree
// instead of building a new one.
package scene

import (
	"time"

	"vaxmap/internal/projection"
)

type Kind int

const (
	Group Kind = iota
	Path
	Circle
	Text
)

func (k Kind) String() string {
	switch k {
	case Group:
		return "g"
	case Path:
		return "path"
	case Circle:
		return "circle"
	case Text:
		return "text"
	}
	return "unknown"
}

type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	Dash        []float64
	FontSize    float64
	Anchor      string // start, middle, end
	// Pulse animates a circle's radius from 0 to R and its opacity to 0,
	// repeating every PulseDuration after PulseDelay.
	PulseDuration time.Duration
	PulseDelay    time.Duration
}

type Node struct {
	Kind  Kind
	Key   string
	Class string
	Style Style

	Lines []projection.Line
	// X and Y position circles and text; on a group they offset the
	// children.
	X, Y, R float64
	Text    string
	Hidden  bool
	Data    any

	Children []*Node
}

// Root is the top of a render target.
type Root struct {
	Node
	Width, Height float64
	Mobile        bool
}

func NewRoot(width, height float64) *Root {
	return &Root{Node: Node{Kind: Group, Key: "root"}, Width: width, Height: height}
}

// Child returns the child with the given kind and key, or nil.
func (n *Node) Child(kind Kind, key string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind && c.Key == key {
			return c
		}
	}
	return nil
}

// Select returns the child with the given kind and key, appending it when
// missing.
func Select(parent *Node, kind Kind, key string) *Node {
	if c := parent.Child(kind, key); c != nil {
		return c
	}
	c := &Node{Kind: kind, Key: key}
	parent.Children = append(parent.Children, c)
	return c
}

// Join makes the children of the given kind match keys: existing nodes are
// reused, missing ones created and the rest removed. Children of other
// kinds keep their place; the joined nodes follow them in keys order.
func Join(parent *Node, kind Kind, keys []string) []*Node {
	existing := map[string]*Node{}
	var others []*Node
	for _, c := range parent.Children {
		if c.Kind != kind {
			others = append(others, c)
			continue
		}
		if _, dup := existing[c.Key]; !dup {
			existing[c.Key] = c
		}
	}
	joined := make([]*Node, 0, len(keys))
	seen := map[string]bool{}
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		c := existing[k]
		if c == nil {
			c = &Node{Kind: kind, Key: k}
		}
		joined = append(joined, c)
	}
	parent.Children = append(others, joined...)
	return joined
}

// Remove drops the child with the given kind and key. It reports whether
// one was removed.
func Remove(parent *Node, kind Kind, key string) bool {
	for i, c := range parent.Children {
		if c.Kind == kind && c.Key == key {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth first, skipping hidden subtrees
// when visibleOnly is set.
func Walk(n *Node, visibleOnly bool, fn func(n *Node, depth int)) {
	walk(n, 0, visibleOnly, fn)
}

func walk(n *Node, depth int, visibleOnly bool, fn func(*Node, int)) {
	if visibleOnly && n.Hidden {
		return
	}
	fn(n, depth)
	for _, c := range n.Children {
		walk(c, depth+1, visibleOnly, fn)
	}
}

// Count returns the number of nodes of kind under n, n included.
func Count(n *Node, kind Kind) int {
	total := 0
	Walk(n, false, func(c *Node, _ int) {
		if c.Kind == kind {
			total++
		}
	})
	return total
}
