// Package role classifies snapshot nodes into the semantic roles that drive
// both their styling and their click behavior.
//
// Classification is a pure function of a node name and its snapshot:
//
//  1. names ending in "/" are modules,
//  2. otherwise members of the snapshot inputs are inputs,
//  3. otherwise members of the snapshot outputs are outputs,
//  4. everything else is a plain node.
//
// The module check always wins: a module that also appears in the terminal
// sets is still a module.
package role

import (
	"fmt"

	"github.com/matzehuels/visunn/pkg/topology"
)

// Role is the derived classification of a node.
type Role uint8

// Roles. Node is the zero value.
const (
	Node Role = iota
	Module
	Input
	Output
)

// All lists every role in display order.
var All = []Role{Module, Input, Output, Node}

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case Module:
		return "module"
	case Input:
		return "input"
	case Output:
		return "output"
	case Node:
		return "node"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Parse converts a role name back into a Role.
func Parse(s string) (Role, error) {
	for _, r := range All {
		if r.String() == s {
			return r, nil
		}
	}
	return Node, fmt.Errorf("unknown role %q", s)
}

// Clickable reports whether clicking a node of this role navigates.
// Only modules can be entered.
func (r Role) Clickable() bool {
	return r == Module
}

// Classify assigns the role of name within snap.
func Classify(name string, snap *topology.Snapshot) Role {
	switch {
	case topology.IsModule(name):
		return Module
	case snap != nil && snap.IsInput(name):
		return Input
	case snap != nil && snap.IsOutput(name):
		return Output
	default:
		return Node
	}
}

// ClassifyAll classifies every node of snap.
func ClassifyAll(snap *topology.Snapshot) map[string]Role {
	if snap == nil {
		return map[string]Role{}
	}
	roles := make(map[string]Role, len(snap.Coords))
	for name := range snap.Coords {
		roles[name] = Classify(name, snap)
	}
	return roles
}

// Count tallies roles, e.g. for summaries.
func Count(roles map[string]Role) map[Role]int {
	counts := make(map[Role]int, len(All))
	for _, r := range roles {
		counts[r]++
	}
	return counts
}
