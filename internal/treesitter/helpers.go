package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// NodeText extracts text from a node using byte offsets
func NodeText(node *sitter.Node, code []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if int(end) > len(code) {
		end = uint32(len(code))
	}
	if start > end {
		return ""
	}
	return string(code[start:end])
}

// Position returns the 1-based line and 0-based column of a node
func Position(node *sitter.Node) (line, col int) {
	p := node.StartPoint()
	return int(p.Row) + 1, int(p.Column)
}

// EndLine returns the 1-based line on which a node ends
func EndLine(node *sitter.Node) int {
	p := node.EndPoint()
	// A node ending at column 0 stops at the end of the previous line
	if p.Column == 0 && p.Row > node.StartPoint().Row {
		return int(p.Row)
	}
	return int(p.Row) + 1
}

// FieldText returns the text of a named field of node, or "" when absent
func FieldText(node *sitter.Node, field string, code []byte) string {
	return NodeText(node.ChildByFieldName(field), code)
}

// FirstOfType returns the first node, in document order, whose type is one
// of types
func FirstOfType(node *sitter.Node, types ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for _, t := range types {
		if node.Type() == t {
			return node
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if found := FirstOfType(node.NamedChild(i), types...); found != nil {
			return found
		}
	}
	return nil
}

// FirstError returns the first ERROR or MISSING node in document order
func FirstError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if bad := FirstError(node.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
