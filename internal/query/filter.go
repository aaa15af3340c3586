// Package query selects nodes of a document with boolean expressions.
//
// Expressions use the expr language (github.com/expr-lang/expr). Every field
// declared by any registered variant is a variable; a node whose variant does
// not declare a field sees its zero value. Dates are "YYYY-MM-DD" strings, or
// "" when unset, so they compare lexically. A few derived variables are added:
//
//	variant   node variant tag, e.g. "TestCase"
//	leaf      true for variants that cannot hold children
//	done      computed status (a container is done when all its children are)
//	path      dotted address, "/" for the root
//	depth     0 for the root
//	children  number of direct children
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/alexanderramin/atest/internal/domain"
)

// Names of the derived variables.
const (
	VarVariant  = "variant"
	VarLeaf     = "leaf"
	VarDone     = "done"
	VarPath     = "path"
	VarDepth    = "depth"
	VarChildren = "children"
)

// ErrVariableConflict is returned when the registry cannot be mapped onto
// filter variables: a field shadows a derived variable, or two variants
// declare the same field with different value kinds.
var ErrVariableConflict = errors.New("filter variable conflict")

// Filter is a compiled node predicate. It is safe for concurrent use.
type Filter struct {
	source  string
	reg     *domain.Registry
	program *vm.Program
}

// Compile type-checks source against the variables of reg. The expression
// must evaluate to a bool.
func Compile(reg *domain.Registry, source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("empty filter expression")
	}
	env, err := zeroEnv(reg)
	if err != nil {
		return nil, err
	}
	prg, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter %q: %w", source, err)
	}
	return &Filter{source: source, reg: reg, program: prg}, nil
}

func (f *Filter) String() string { return f.source }

// Match evaluates the filter for one attached node.
func (f *Filter) Match(doc *domain.Document, n *domain.Node) (bool, error) {
	env, err := Env(doc, n)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating filter %q at %s: %w", f.source, env[VarPath], err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Select returns the matching nodes of doc in depth-first pre-order.
func (f *Filter) Select(doc *domain.Document) ([]*domain.Node, error) {
	var (
		matches []*domain.Node
		walkErr error
	)
	domain.Walk(doc.Root(), func(n *domain.Node, _ int) bool {
		if walkErr != nil {
			return false
		}
		ok, err := f.Match(doc, n)
		if err != nil {
			walkErr = err
			return false
		}
		if ok {
			matches = append(matches, n)
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return matches, nil
}

// Env builds the variables a filter sees for n.
func Env(doc *domain.Document, n *domain.Node) (map[string]any, error) {
	path, err := doc.PathOf(n)
	if err != nil {
		return nil, err
	}
	env, err := zeroEnv(doc.Registry())
	if err != nil {
		return nil, err
	}
	for _, fd := range n.Fields() {
		v, err := n.Get(fd.Name)
		if err != nil {
			return nil, err
		}
		env[fd.Name] = envValue(fd.Type, v)
	}
	env[VarVariant] = string(n.Variant())
	env[VarLeaf] = !n.IsContainer()
	env[VarDone] = domain.IsPerformed(n)
	env[VarPath] = domain.FormatPath(path)
	env[VarDepth] = len(path)
	env[VarChildren] = n.ChildCount()
	return env, nil
}

// zeroEnv holds every variable with its zero value. It fixes the variable
// types for compilation.
func zeroEnv(reg *domain.Registry) (map[string]any, error) {
	env := map[string]any{
		VarVariant:  "",
		VarLeaf:     false,
		VarDone:     false,
		VarPath:     "",
		VarDepth:    0,
		VarChildren: 0,
	}
	declared := make(map[string]domain.Variant)
	for _, tag := range reg.Variants() {
		fields, _ := reg.SchemaFor(tag)
		for _, fd := range fields {
			zero := zeroValue(fd.Type)
			prev, seen := env[fd.Name]
			switch {
			case !seen:
				env[fd.Name] = zero
				declared[fd.Name] = tag
			case declared[fd.Name] == "":
				return nil, fmt.Errorf("%w: field %s of %s shadows a derived variable", ErrVariableConflict, fd.Name, tag)
			case fmt.Sprintf("%T", prev) != fmt.Sprintf("%T", zero):
				return nil, fmt.Errorf("%w: field %s is %T in %s but %T in %s",
					ErrVariableConflict, fd.Name, prev, declared[fd.Name], zero, tag)
			}
		}
	}
	return env, nil
}

func zeroValue(t domain.ValueType) any {
	switch t {
	case domain.TypeInt:
		return int64(0)
	case domain.TypeFloat:
		return float64(0)
	case domain.TypeBool:
		return false
	default:
		return ""
	}
}

func envValue(t domain.ValueType, v any) any {
	if t == domain.TypeDate {
		return domain.FormatValue(t, v)
	}
	return v
}
