// Package graph represents communication graphs over ranks 0 to n - 1.
package graph

import (
	"bytes"
	"fmt"
)

type Vertices []int

func (vs *Vertices) Append(v int) {
	*vs = append(*vs, v)
}

type Node struct {
	Rank     int
	SelfLoop bool
	Prevs    Vertices
	Nexts    Vertices
}

func (n *Node) isIsolated() bool {
	return len(n.Prevs) == 0 && len(n.Nexts) == 0
}

// Graph represents a graph of integers numbered from 0 to n - 1.
type Graph struct {
	Nodes []Node
}

func New(n int) *Graph {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i].Rank = i
	}
	return &Graph{
		Nodes: nodes,
	}
}

// AddEdge adds i -> j, or marks i as a self loop if i == j.
func (g *Graph) AddEdge(i, j int) {
	if i == j {
		g.Nodes[i].SelfLoop = true
		return
	}
	g.Nodes[i].Nexts.Append(j)
	g.Nodes[j].Prevs.Append(i)
}

func (g Graph) IsSelfLoop(i int) bool {
	return g.Nodes[i].SelfLoop
}

func (g Graph) IsIsolated(i int) bool {
	return g.Nodes[i].isIsolated()
}

func (g Graph) Prevs(i int) []int {
	return g.Nodes[i].Prevs
}

func (g Graph) Nexts(i int) []int {
	return g.Nodes[i].Nexts
}

// Reverse returns a graph with every edge reversed, self loops are dropped.
func (g Graph) Reverse() *Graph {
	r := New(len(g.Nodes))
	for i, n := range g.Nodes {
		for _, j := range n.Nexts {
			r.Nodes[j].Nexts.Append(i)
		}
		for _, j := range n.Prevs {
			r.Nodes[j].Prevs.Append(i)
		}
	}
	return r
}

func (g *Graph) DebugString() string {
	b := &bytes.Buffer{}
	fmt.Fprintf(b, "[%d]{", len(g.Nodes))
	for i := range g.Nodes {
		if g.IsSelfLoop(i) {
			fmt.Fprintf(b, "(%d)", i)
		}
	}
	for i, n := range g.Nodes {
		for _, j := range n.Nexts {
			fmt.Fprintf(b, "(%d->%d)", i, j)
		}
	}
	fmt.Fprintf(b, "}")
	return b.String()
}

func (g *Graph) Debug() {
	fmt.Printf("%s\n", g.DebugString())
}
