// Package traverse implements a generic dependency-ordered graph walk:
// an explicit stack-based post-order DFS that yields each distinct node
// exactly once, children strictly before parents. The explicit stack
// supports arbitrary nesting depth without recursion limits; a visited
// set makes diamond dependencies cheap and an open set rejects true
// cycles instead of looping.
package traverse

import (
	"errors"
	"fmt"
)

// ErrCycle is wrapped into the error returned when a node transitively
// depends on itself.
var ErrCycle = errors.New("dependency cycle")

// frame is a single traversal stack entry. A node is pushed twice: once
// unexpanded, then again expanded after its dependencies.
type frame[N, R any] struct {
	node     N
	result   R
	expanded bool
}

// PostOrder walks the graph reachable from roots and returns the
// transform results in strict post-order: for every edge "A depends on
// B", B's result appears before A's.
//
// key extracts the identity used for deduplication; nodes with equal
// keys are the same node. transform is computed eagerly when a node is
// first pushed, so that deps can read the transformed shape without the
// final result being assembled yet. deps lists a result's immediate
// dependencies; self-references are skipped, already-visited nodes are
// not revisited, and a dependency on a node whose expansion is still in
// progress fails with ErrCycle.
func PostOrder[N any, K comparable, R any](
	roots []N,
	key func(N) K,
	transform func(N) (R, error),
	deps func(R) []N,
) ([]R, error) {
	visited := make(map[K]bool)
	open := make(map[K]bool)

	stack := make([]frame[N, R], 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		r, err := transform(roots[i])
		if err != nil {
			return nil, err
		}
		stack = append(stack, frame[N, R]{node: roots[i], result: r})
	}

	var out []R
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		k := key(f.node)
		if visited[k] {
			continue
		}

		if f.expanded {
			visited[k] = true
			delete(open, k)
			out = append(out, f.result)
			continue
		}

		open[k] = true
		stack = append(stack, frame[N, R]{node: f.node, result: f.result, expanded: true})

		children := deps(f.result)
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			ck := key(child)
			if ck == k || visited[ck] {
				continue
			}
			if open[ck] {
				return nil, fmt.Errorf("%w: %v depends on %v", ErrCycle, k, ck)
			}
			r, err := transform(child)
			if err != nil {
				return nil, err
			}
			stack = append(stack, frame[N, R]{node: child, result: r})
		}
	}

	return out, nil
}
