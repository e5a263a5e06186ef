package smc

import (
	"fmt"
	"math/big"
)

// NodeID indexes a node in a Circuit arena. IDs are stable across parties
// because every party builds the same circuit in the same order; they key
// the per-node protocol messages and Beaver triplets.
type NodeID uint32

type opKind uint8

const (
	opScalar opKind = iota
	opSecret
	opAdd
	opMul
)

type node struct {
	op     opKind
	left   NodeID
	right  NodeID
	scalar *big.Int // opScalar only
}

// Circuit is an arena of expression nodes. It is a DAG, not a tree: the
// same Secret node may be referenced by several parents and is shared
// exactly once during evaluation.
type Circuit struct {
	nodes []node
}

// NewCircuit returns an empty circuit.
func NewCircuit() *Circuit {
	return &Circuit{}
}

func (c *Circuit) push(n node) NodeID {
	c.nodes = append(c.nodes, n)
	return NodeID(len(c.nodes) - 1)
}

// Scalar adds a public constant node.
func (c *Circuit) Scalar(v *big.Int) NodeID {
	return c.push(node{op: opScalar, scalar: new(big.Int).Set(v)})
}

// Secret adds an input wire. The returned NodeID doubles as the secret
// identifier: the owning party maps it to a value in its input dict.
func (c *Circuit) Secret() NodeID {
	return c.push(node{op: opSecret})
}

// Add adds an addition node.
func (c *Circuit) Add(l, r NodeID) NodeID {
	return c.push(node{op: opAdd, left: l, right: r})
}

// Mul adds a multiplication node.
func (c *Circuit) Mul(l, r NodeID) NodeID {
	return c.push(node{op: opMul, left: l, right: r})
}

// Sub adds l - r, lowered to l + (r * -1) so the evaluator only handles
// addition and multiplication.
func (c *Circuit) Sub(l, r NodeID) NodeID {
	minusOne := c.Scalar(big.NewInt(-1))
	return c.Add(l, c.Mul(r, minusOne))
}

// Len returns the number of nodes in the arena.
func (c *Circuit) Len() int {
	return len(c.nodes)
}

func (c *Circuit) at(id NodeID) (node, error) {
	if int(id) >= len(c.nodes) {
		return node{}, fmt.Errorf("smc: node %d out of range", id)
	}
	return c.nodes[id], nil
}
