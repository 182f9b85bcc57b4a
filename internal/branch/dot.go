package branch

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

const (
	dotStart = "start"
	dotEnd   = "end"
)

func dotNode(id int) string {
	if id == Leaf {
		return dotEnd
	}
	return "n" + strconv.Itoa(id)
}

// DOT renders the branch graph. Every conditional is a node labeled with its
// test; each outcome is an edge to the next conditional or to "end".
func DOT(t *Tree) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("branches"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	add := func(name string, attrs map[string]string) error {
		if err := g.AddNode("branches", name, attrs); err != nil {
			return fmt.Errorf("add node %s: %w", name, err)
		}
		return nil
	}
	edge := func(from, to int, label string) error {
		src := dotStart
		if from != Leaf {
			src = dotNode(from)
		}
		attrs := map[string]string{}
		if label != "" {
			attrs["label"] = strconv.Quote(label)
		}
		if err := g.AddEdge(src, dotNode(to), true, attrs); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", src, dotNode(to), err)
		}
		return nil
	}

	if err := add(dotStart, map[string]string{"shape": "point", "tooltip": strconv.Quote(t.Func)}); err != nil {
		return "", err
	}
	if err := add(dotEnd, map[string]string{"shape": "doublecircle", "label": strconv.Quote("end")}); err != nil {
		return "", err
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if err := add(dotNode(n.ID), map[string]string{"shape": "diamond", "label": strconv.Quote(n.Test.String())}); err != nil {
			return "", err
		}
	}

	if err := edge(Leaf, t.Root, ""); err != nil {
		return "", err
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if err := edge(n.ID, n.NextTrue, "true"); err != nil {
			return "", err
		}
		if err := edge(n.ID, n.NextFalse, "false"); err != nil {
			return "", err
		}
	}

	return g.String(), nil
}
