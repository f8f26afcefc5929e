// Package funcs declares the built-in function library bound into every
// document evaluation. Each function is described by a Definition (name,
// namespace, typed parameters, implementation) and compiled into the
// expression evaluator's native function form at registry construction.
//
// Namespaced functions use the evaluator's scoped-call syntax, so a
// definition with namespace ["hash"] and name "sha256" is called as
// hash::sha256(...) inside documents.
package funcs

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/theMackabu/ship/pkg/secret"
	"github.com/theMackabu/ship/pkg/value"
)

// ParamType constrains one declared parameter.
type ParamType int

// Parameter type constraints.
const (
	TypeAny ParamType = iota
	TypeString
	TypeNumber
	TypeBool
	TypeArray
	TypeObject
)

func (p ParamType) String() string {
	switch p {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "any"
	}
}

// Impl is a built-in function body. Arguments have already been checked
// against the declared parameter types; errors are returned as values and
// surface as evaluation failures for the document.
type Impl func(args []value.Value) (value.Value, error)

// Definition describes one built-in function. Definitions are built
// during registry construction and immutable afterwards.
type Definition struct {
	Name      string
	Namespace []string
	Params    []ParamType
	VarParam  *ParamType
	Impl      Impl
}

// CallName returns the name documents use to invoke the function,
// including namespace segments.
func (d Definition) CallName() string {
	if len(d.Namespace) == 0 {
		return d.Name
	}
	return strings.Join(d.Namespace, "::") + "::" + d.Name
}

// DefaultTimeout bounds every network-calling function when no client is
// injected. The upstream behavior had no bound at all; removing the
// unbounded wait is a deliberate hardening deviation.
const DefaultTimeout = 30 * time.Second

// Options carries the injected collaborators for the remote-effecting
// functions. Everything else is pure.
type Options struct {
	// HTTPClient backs http::get/post/post_json/put. Nil gets a client
	// with DefaultTimeout.
	HTTPClient *http.Client

	// Secrets backs secret::kv. Nil leaves secret::kv registered but
	// failing with a configuration error.
	Secrets *secret.Client

	// Now overrides the clock used by date::timestamp. Nil means
	// time.Now.
	Now func() time.Time
}

// Registry is the full built-in library for one evaluation session.
// Build one per document evaluation; it is never shared across requests.
type Registry struct {
	defs map[string]Definition
	http *http.Client
	kv   *secret.Client
	now  func() time.Time
}

// NewRegistry builds the registry with every built-in declared.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		defs: make(map[string]Definition),
		http: opts.HTTPClient,
		kv:   opts.Secrets,
		now:  opts.Now,
	}
	if r.http == nil {
		r.http = &http.Client{Timeout: DefaultTimeout}
	}
	if r.now == nil {
		r.now = time.Now
	}

	r.declareCollections()
	r.declareNumeric()
	r.declareStrings()
	r.declareConvert()
	r.declareHash()
	r.declareDate()
	r.declareEncoding()
	r.declareCIDR()
	r.declareRemote()

	return r
}

// declare registers d under its call name. Two surface names may alias
// the same implementation; a duplicate call name is a programming error.
func (r *Registry) declare(d Definition) {
	name := d.CallName()
	if _, exists := r.defs[name]; exists {
		panic(fmt.Sprintf("funcs: duplicate declaration of %q", name))
	}
	r.defs[name] = d
}

// Lookup returns the definition registered under the given call name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns every registered call name, unordered.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	return names
}

// Functions compiles the registry into the evaluator's function table.
func (r *Registry) Functions() map[string]function.Function {
	fns := make(map[string]function.Function, len(r.defs))
	for name, def := range r.defs {
		fns[name] = compile(def)
	}
	return fns
}

// compile wraps a Definition for the expression evaluator. The evaluator
// enforces arity through the parameter spec; argument types are checked
// here so every failure names the violating function.
func compile(d Definition) function.Function {
	params := make([]function.Parameter, len(d.Params))
	for i := range d.Params {
		params[i] = function.Parameter{
			Name:             fmt.Sprintf("arg%d", i+1),
			Type:             cty.DynamicPseudoType,
			AllowNull:        true,
			AllowDynamicType: true,
		}
	}

	spec := &function.Spec{
		Params: params,
		Type:   function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			vals := make([]value.Value, len(args))
			for i, arg := range args {
				v, err := value.FromCty(arg)
				if err != nil {
					return cty.NilVal, fmt.Errorf("%s: argument %d: %w", d.CallName(), i+1, err)
				}
				if err := checkParam(d.paramAt(i), v); err != nil {
					return cty.NilVal, fmt.Errorf("%s: argument %d: %w", d.CallName(), i+1, err)
				}
				vals[i] = v
			}
			out, err := d.Impl(vals)
			if err != nil {
				return cty.NilVal, fmt.Errorf("%s: %w", d.CallName(), err)
			}
			return value.ToCty(out), nil
		},
	}

	if d.VarParam != nil {
		spec.VarParam = &function.Parameter{
			Name:             "rest",
			Type:             cty.DynamicPseudoType,
			AllowNull:        true,
			AllowDynamicType: true,
		}
	}

	return function.New(spec)
}

func (d Definition) paramAt(i int) ParamType {
	if i < len(d.Params) {
		return d.Params[i]
	}
	if d.VarParam != nil {
		return *d.VarParam
	}
	return TypeAny
}

func checkParam(want ParamType, v value.Value) error {
	if want == TypeAny {
		return nil
	}
	var ok bool
	switch want {
	case TypeString:
		ok = v.Kind() == value.KindString
	case TypeNumber:
		ok = v.Kind() == value.KindNumber
	case TypeBool:
		ok = v.Kind() == value.KindBool
	case TypeArray:
		ok = v.Kind() == value.KindArray
	case TypeObject:
		ok = v.Kind() == value.KindObject
	}
	if !ok {
		return fmt.Errorf("expected %s, got %s", want, v.Kind())
	}
	return nil
}

// typed is shorthand for variadic parameter declarations.
func typed(p ParamType) *ParamType { return &p }
