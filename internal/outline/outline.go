// Package outline renders container trees as plain-text outlines.
package outline

import (
	"strings"

	models "later/internal/domain/models/content"
)

// line is one rendered row. Depth 0 is the container itself.
type line struct {
	text   string
	depth  int
	isLast bool
}

// Render draws a container and its nodes with box-drawing characters.
//
// Example output:
//
//	Groceries
//	├── [ ] Produce
//	│   └── [x] Apples
//	└── [ ] Bread
func Render(tree *models.ContainerTree) string {
	lines := []line{{text: tree.Container.Name, isLast: true}}
	lines = flatten(lines, tree.Nodes, 1)

	var b strings.Builder
	open := make(map[int]bool)
	for i, l := range lines {
		b.WriteString(prefix(l, open))
		b.WriteString(l.text)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}

		if l.isLast {
			delete(open, l.depth)
		} else {
			open[l.depth] = true
		}
	}
	return b.String()
}

func flatten(out []line, nodes []*models.NodeTreeNode, depth int) []line {
	for i, n := range nodes {
		out = append(out, line{
			text:   checkbox(n.IsDone) + n.Title,
			depth:  depth,
			isLast: i == len(nodes)-1,
		})
		out = flatten(out, n.Children, depth+1)
	}
	return out
}

func checkbox(done bool) string {
	if done {
		return "[x] "
	}
	return "[ ] "
}

// prefix draws the guides for l; open holds depths whose sibling list
// continues below
func prefix(l line, open map[int]bool) string {
	if l.depth == 0 {
		return ""
	}

	var p strings.Builder
	for d := 1; d < l.depth; d++ {
		if open[d] {
			p.WriteString("│   ")
		} else {
			p.WriteString("    ")
		}
	}
	if l.isLast {
		p.WriteString("└── ")
	} else {
		p.WriteString("├── ")
	}
	return p.String()
}
