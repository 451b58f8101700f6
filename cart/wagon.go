package cart

import (
	"fmt"
	"io"
	"strings"
)

// absentChildText is the Wagon placeholder for an absent child slot.
const absentChildText = "((() 0))"

/*
WriteWagon writes the tree in Wagon format onto the given writer: one
fully parenthesized node definition per decision node, the children in
slot order separated by one space, and the leaf payloads as
parenthesized item lists. The output is byte-for-byte stable for
identical trees and contains exactly as many closing as opening
parens.

Write faults abort the serialization immediately and are returned to
the caller; output already written to the writer is left as is.
*/
func (c *CART) WriteWagon(w io.Writer) error {
	if c.root == nil {
		return fmt.Errorf("cannot serialize a tree without a root")
	}
	return c.root.WriteWagon(w, "")
}

/*
WriteWagon writes the subtree below the decision node in Wagon format
onto the given writer. The extension is appended once, right after the
final token of the subtree; the driver passes an empty extension for
the whole tree, and the recursion passes each last child one more
closing paren than its caller was asked to append.
*/
func (dn *DecisionNode) WriteWagon(w io.Writer, extension string) error {
	if _, err := fmt.Fprintf(w, "((%s", dn.Definition()); err != nil {
		return err
	}
	for i, child := range dn.children {
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		last := i+1 == len(dn.children)
		if child == nil {
			text := absentChildText
			if last {
				// the last child closes the pair this node opened
				text += ")" + extension
			}
			if _, err := io.WriteString(w, text); err != nil {
				return err
			}
			continue
		}
		childExtension := ""
		if last {
			childExtension = ")" + extension
		}
		if err := child.WriteWagon(w, childExtension); err != nil {
			return err
		}
	}
	return nil
}

/*
WriteWagon writes the leaf payload in Wagon format onto the given
writer: the items in stored order inside one paren pair, followed by
the weight placeholder. Vector leaves list the unit indexes of their
vectors. An empty leaf is written as its bare paren pair.
*/
func (l *LeafNode) WriteWagon(w io.Writer, extension string) error {
	var sb strings.Builder
	sb.WriteString("((")
	switch l.kind {
	case UnitIndexLeaf:
		for i, u := range l.units {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", u)
		}
	case VectorLeaf:
		for i, v := range l.vectors {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", v.UnitIndex())
		}
	}
	sb.WriteString(") 0)")
	sb.WriteString(extension)
	_, err := io.WriteString(w, sb.String())
	return err
}

/*
String returns the Wagon serialization of the tree.
*/
func (c *CART) String() string {
	var sb strings.Builder
	if err := c.WriteWagon(&sb); err != nil {
		return fmt.Sprintf("ERROR: %s", err.Error())
	}
	return sb.String()
}
