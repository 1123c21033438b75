// Package analyzer walks a Python syntax tree and runs checkers on the
// nodes that matter to the coding standard: modules, classes, functions
// and calls.
//
// A checker is any value implementing Checker plus one or more of the
// visitor interfaces below. The analyzer calls the matching visitor when it
// reaches a node; the visitor may return a Scope whose Exit method runs after
// the node's children were visited, which lets a checker act both before and
// after a subtree:
//
//	func (c *myChecker) VisitFunction(a *analyzer.Analyzer, n analyzer.Node) analyzer.Scope {
//		return analyzer.ExitFunc(func(a *analyzer.Analyzer) {
//			a.Peek().AddCheck(...)
//		})
//	}
package analyzer

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/report"
	"github.com/sachi/sachi-go/internal/stack"
	"github.com/sachi/sachi-go/internal/treesitter"
)

// Checker is a named set of visitor hooks
type Checker interface {
	Name() string
}

// ModuleVisitor is implemented by checkers interested in the module node
type ModuleVisitor interface {
	VisitModule(a *Analyzer, n Node) Scope
}

// ClassVisitor is implemented by checkers interested in class definitions
type ClassVisitor interface {
	VisitClass(a *Analyzer, n Node) Scope
}

// FunctionVisitor is implemented by checkers interested in function definitions
type FunctionVisitor interface {
	VisitFunction(a *Analyzer, n Node) Scope
}

// CallVisitor is implemented by checkers interested in call expressions
type CallVisitor interface {
	VisitCall(a *Analyzer, n Node) Scope
}

// Scope is returned by a visitor to be notified once the node's children
// have been visited. A nil Scope means no follow-up is needed.
type Scope interface {
	Exit(a *Analyzer)
}

// Enterer is an optional Scope extension called before children are visited
type Enterer interface {
	Enter(a *Analyzer)
}

// ExitFunc adapts a function to the Scope interface
type ExitFunc func(a *Analyzer)

// Exit calls f(a)
func (f ExitFunc) Exit(a *Analyzer) { f(a) }

// Analyzer holds the checkers to run on a syntax tree while visiting it.
// It can be reused for several trees but is not safe for concurrent use.
type Analyzer struct {
	checkers []Checker
	scopes   stack.Stack[*report.ScopeReport]
	source   []byte
	report   *report.ASTReport
}

// New creates an analyzer running the given checkers in order
func New(checkers ...Checker) *Analyzer {
	return &Analyzer{checkers: checkers}
}

// Peek returns the innermost scope being visited
func (a *Analyzer) Peek() *report.ScopeReport {
	s, _ := a.scopes.Peek()
	return s
}

// Parent returns the scope enclosing the innermost one
func (a *Analyzer) Parent() *report.ScopeReport {
	s, _ := a.scopes.Parent()
	return s
}

// Depth returns the number of open scopes
func (a *Analyzer) Depth() int {
	return a.scopes.Depth()
}

// Report returns the report being built
func (a *Analyzer) Report() *report.ASTReport {
	return a.report
}

// Visit walks the tree rooted at root and returns the complete report.
// The context is checked between top-level statements.
func (a *Analyzer) Visit(ctx context.Context, root *sitter.Node, source []byte, target string) (*report.ASTReport, error) {
	if root == nil {
		return nil, serrors.InternalError("nil syntax tree")
	}
	if root.Type() != "module" {
		return nil, serrors.ValidationErrorf("expected module node, got %s", root.Type())
	}

	a.source = source
	a.report = report.NewASTReport(target)
	a.scopes = stack.Stack[*report.ScopeReport]{}
	defer func() {
		a.source = nil
	}()

	if err := a.visitModule(ctx, root); err != nil {
		return nil, err
	}

	return a.report, nil
}

func (a *Analyzer) visitModule(ctx context.Context, node *sitter.Node) error {
	a.scopes.Push(a.report.Module)
	defer a.scopes.Pop()

	n := a.newNode(node, report.KindModule, "")
	scopes := a.enter(n, func(c Checker) (Scope, bool) {
		v, ok := c.(ModuleVisitor)
		if !ok {
			return nil, false
		}
		return v.VisitModule(a, n), true
	})

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.visit(node.Child(i))
	}

	a.exit(scopes)
	return nil
}

// visit dispatches a node to its handler, or visits its children generically
func (a *Analyzer) visit(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "class_definition":
		a.visitClass(node, nil)
	case "function_definition":
		a.visitFunction(node, nil)
	case "decorated_definition":
		a.visitDecorated(node)
	case "call":
		a.visitCall(node)
	default:
		a.genericVisit(node)
	}
}

func (a *Analyzer) genericVisit(node *sitter.Node) {
	for i := 0; i < int(node.ChildCount()); i++ {
		a.visit(node.Child(i))
	}
}

// visitDecorated visits the decorators inside the scope of the definition
// they decorate, as Python's own AST does.
func (a *Analyzer) visitDecorated(node *sitter.Node) {
	def := node.ChildByFieldName("definition")
	if def == nil {
		a.genericVisit(node)
		return
	}

	var decorators []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "decorator" {
			decorators = append(decorators, child)
		}
	}

	switch def.Type() {
	case "class_definition":
		a.visitClass(def, decorators)
	case "function_definition":
		a.visitFunction(def, decorators)
	default:
		a.genericVisit(node)
	}
}

func (a *Analyzer) visitClass(node *sitter.Node, decorators []*sitter.Node) {
	name := treesitter.FieldText(node, "name", a.source)
	line, col := treesitter.Position(node)
	scope := report.NewClassReport(a.qualify(name), line, col, treesitter.EndLine(node))
	parent := a.Peek()
	parent.Classes = append(parent.Classes, scope)

	a.scopes.Push(scope)
	defer a.scopes.Pop()

	n := a.newNode(node, report.KindClass, scope.Name)
	scopes := a.enter(n, func(c Checker) (Scope, bool) {
		v, ok := c.(ClassVisitor)
		if !ok {
			return nil, false
		}
		return v.VisitClass(a, n), true
	})

	for _, d := range decorators {
		a.visit(d)
	}
	a.genericVisit(node)

	a.exit(scopes)
}

func (a *Analyzer) visitFunction(node *sitter.Node, decorators []*sitter.Node) {
	name := treesitter.FieldText(node, "name", a.source)
	line, col := treesitter.Position(node)
	scope := report.NewFunctionReport(a.qualify(name), line, col, treesitter.EndLine(node))
	parent := a.Peek()
	parent.Functions = append(parent.Functions, scope)

	a.scopes.Push(scope)
	defer a.scopes.Pop()

	n := a.newNode(node, report.KindFunction, scope.Name)
	scope.Async = n.IsAsync()
	scopes := a.enter(n, func(c Checker) (Scope, bool) {
		v, ok := c.(FunctionVisitor)
		if !ok {
			return nil, false
		}
		return v.VisitFunction(a, n), true
	})

	for _, d := range decorators {
		a.visit(d)
	}
	a.genericVisit(node)

	a.exit(scopes)
}

func (a *Analyzer) visitCall(node *sitter.Node) {
	n := a.newNode(node, "", treesitter.FieldText(node, "function", a.source))
	scopes := a.enter(n, func(c Checker) (Scope, bool) {
		v, ok := c.(CallVisitor)
		if !ok {
			return nil, false
		}
		return v.VisitCall(a, n), true
	})

	a.genericVisit(node)

	a.exit(scopes)
}

// enter runs the hook on every checker and enters the returned scopes
func (a *Analyzer) enter(n Node, hook func(Checker) (Scope, bool)) []Scope {
	var scopes []Scope
	for _, c := range a.checkers {
		s, ok := hook(c)
		if !ok || s == nil {
			continue
		}
		scopes = append(scopes, s)
	}
	for _, s := range scopes {
		if e, ok := s.(Enterer); ok {
			e.Enter(a)
		}
	}
	return scopes
}

func (a *Analyzer) exit(scopes []Scope) {
	for _, s := range scopes {
		s.Exit(a)
	}
}

// qualify prefixes name with the name of the enclosing class or function.
// Enclosing names are already qualified.
func (a *Analyzer) qualify(name string) string {
	parent := a.Peek()
	if parent == nil || parent.Kind == report.KindModule || parent.Name == "" {
		return name
	}
	return parent.Name + "." + name
}

func (a *Analyzer) newNode(node *sitter.Node, kind report.Kind, name string) Node {
	line, col := treesitter.Position(node)
	return Node{
		Kind:    kind,
		Type:    node.Type(),
		Name:    name,
		Lineno:  line,
		Col:     col,
		EndLine: treesitter.EndLine(node),
		raw:     node,
		source:  a.source,
	}
}

// Node is the view of a syntax node handed to checkers
type Node struct {
	Kind    report.Kind
	Type    string
	Name    string
	Lineno  int
	Col     int
	EndLine int

	raw    *sitter.Node
	source []byte
}

// Text returns the source text of the node
func (n Node) Text() string {
	return treesitter.NodeText(n.raw, n.source)
}

// Lines returns the number of lines spanned by the node
func (n Node) Lines() int {
	return n.EndLine - n.Lineno + 1
}

// IsAsync reports whether a function node is declared with async def
func (n Node) IsAsync() bool {
	return n.raw != nil && strings.HasPrefix(strings.TrimSpace(n.Text()), "async")
}
