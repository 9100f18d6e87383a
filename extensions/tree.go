package extensions

import (
	"strings"

	"github.com/m1gwings/treedrawer/tree"

	forge "github.com/forge-fn/forge-go"
)

// TreeSink records one Make call as a tree of resolution steps and
// renders it with treedrawer. Each node is a requested type annotated
// with how it was satisfied: a store hit, an override, a constructor
// signature, or a failure.
//
// A TreeSink resets itself at the start of each Make call, so one sink
// can be reused across sequential calls; Render shows the last call.
type TreeSink struct {
	root *traceNode
	open []*traceNode
}

type traceNode struct {
	label    string
	note     string
	children []*traceNode
}

func (n *traceNode) text() string {
	if n.note == "" {
		return n.label
	}
	return n.label + " (" + n.note + ")"
}

// NewTreeSink creates an empty tree sink.
func NewTreeSink() *TreeSink {
	return &TreeSink{}
}

// Emit implements the forge.Sink interface.
func (s *TreeSink) Emit(ev forge.Event) {
	switch ev.Kind {
	case forge.EventMakeStart:
		s.root = nil
		s.open = s.open[:0]

	case forge.EventResolveStart:
		n := &traceNode{label: typeLabel(ev.Target)}
		if len(s.open) == 0 {
			s.root = n
		} else {
			top := s.open[len(s.open)-1]
			top.children = append(top.children, n)
		}
		s.open = append(s.open, n)

	case forge.EventOverrideHit:
		s.annotate("override")

	case forge.EventStoreHit:
		s.annotate("store")

	case forge.EventConstruct:
		s.annotate(ev.Constructor)

	case forge.EventModify:
		if top := s.top(); top != nil {
			s.annotate(top.note + " *")
		}

	case forge.EventInputSkipped:
		if top := s.top(); top != nil && len(top.children) > 0 {
			top.children[len(top.children)-1].note = "missing"
		}

	case forge.EventResolveEnd:
		if top := s.top(); top != nil {
			if ev.Err != nil {
				top.note = "error: " + ev.Err.Error()
			}
			s.open = s.open[:len(s.open)-1]
		}

	case forge.EventMakeEnd:
		if s.root != nil && ev.Err != nil && s.root.note == "" {
			s.root.note = "error: " + ev.Err.Error()
		}
	}
}

func (s *TreeSink) top() *traceNode {
	if len(s.open) == 0 {
		return nil
	}
	return s.open[len(s.open)-1]
}

func (s *TreeSink) annotate(note string) {
	if top := s.top(); top != nil {
		top.note = strings.TrimSpace(note)
	}
}

// Render draws the recorded resolution tree. It returns the empty string
// when no Make call has been observed yet.
func (s *TreeSink) Render() string {
	if s.root == nil {
		return ""
	}
	t := tree.NewTree(tree.NodeString(s.root.text()))
	fillTree(t, s.root)
	return t.String()
}

func fillTree(dst *tree.Tree, n *traceNode) {
	for i, c := range n.children {
		dst.AddChild(tree.NodeString(c.text()))
		child, err := dst.Child(i)
		if err != nil {
			continue
		}
		fillTree(child, c)
	}
}
