// Package document drives one evaluation pass over an HCL configuration
// document: reserved variable blocks are resolved from the raw parse,
// metadata is extracted, the built-in bindings are declared, and the
// whole document is evaluated into an ordered value tree with the
// reserved keys stripped from the result.
package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/theMackabu/ship/pkg/funcs"
	"github.com/theMackabu/ship/pkg/value"
)

// reservedKeys never appear in rendered output. They are stripped from
// the evaluated root after the bindings they feed have been consumed.
var reservedKeys = []string{"locals", "meta", "const", "let", "var", "vars"}

// Document is one parsed configuration document plus the variable
// bindings accumulated for its evaluation. A Document serves a single
// evaluation pass; build a fresh one per request.
type Document struct {
	name string
	body *hclsyntax.Body
	vars map[string]cty.Value

	// FileBase and Export are derived from the meta block by
	// ResolveMeta: the output base name and the format hint.
	FileBase string
	Export   string
}

// Parse parses document source. The name is used in diagnostics only.
func Parse(name string, src []byte) (*Document, error) {
	file, diags := hclsyntax.ParseConfig(src, name, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, &ParseError{Filename: name, Diags: diags}
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &ParseError{Filename: name, Diags: hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "unsupported document body",
		}}}
	}
	return &Document{
		name: name,
		body: body,
		vars: make(map[string]cty.Value),
	}, nil
}

// Load reads and parses a document from disk.
func Load(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, src)
}

// Declare binds a variable for the evaluation pass, replacing any
// earlier binding of the same name.
func (d *Document) Declare(name string, v value.Value) {
	d.vars[name] = value.ToCty(v)
}

// rawObject extracts a top-level entry by name from the raw parse,
// before any variables exist. The entry may be written as a block or as
// an object attribute; repeated blocks merge in source order. Returns
// false when the document has no such entry.
func (d *Document) rawObject(name string) (*value.Object, bool, error) {
	var out *value.Object

	if attr, ok := d.body.Attributes[name]; ok {
		v, err := evalExpression(attr.Expr, nil)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", name, err)
		}
		if v.Kind() != value.KindObject {
			return nil, false, fmt.Errorf("%s must be an object", name)
		}
		out = v.AsObject()
	}

	for _, block := range d.body.Blocks {
		if block.Type != name || len(block.Labels) > 0 {
			continue
		}
		inner, err := evalBody(block.Body, nil)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", name, err)
		}
		if out == nil {
			out = inner
		} else {
			out.Extend(inner)
		}
	}

	return out, out != nil, nil
}

// ResolveVariables merges the reserved variable blocks into the bound
// variable set. const entries are immutable for the pass: var and let
// may not shadow them, and vars may neither shadow const nor collide
// with anything already merged. The merged map binds as "var"; the
// locals block binds separately, unmerged, as "local".
func (d *Document) ResolveVariables() error {
	if locals, ok, err := d.rawObject("locals"); err != nil {
		return err
	} else if ok {
		d.Declare("local", value.ObjectVal(locals))
	}

	constBlock, hasConst, err := d.rawObject("const")
	if err != nil {
		return err
	}

	combined := value.NewObject()
	if hasConst {
		combined.Extend(constBlock)
	}

	checkConst := func(m *value.Object, block string) error {
		if !hasConst {
			return nil
		}
		var clash []string
		for _, k := range m.Keys() {
			if constBlock.Has(k) {
				clash = append(clash, k)
			}
		}
		if len(clash) > 0 {
			return &ConflictError{Block: block, Keys: clash, Const: true}
		}
		return nil
	}

	for _, name := range []string{"var", "let"} {
		m, ok, err := d.rawObject(name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := checkConst(m, name); err != nil {
			return err
		}
		combined.Extend(m)
	}

	if varsBlock, ok, err := d.rawObject("vars"); err != nil {
		return err
	} else if ok {
		if err := checkConst(varsBlock, "vars"); err != nil {
			return err
		}
		var clash []string
		for _, k := range varsBlock.Keys() {
			if combined.Has(k) {
				clash = append(clash, k)
			}
		}
		if len(clash) > 0 {
			return &ConflictError{Block: "vars", Keys: clash}
		}
		combined.Extend(varsBlock)
	}

	if combined.Len() > 0 {
		d.Declare("var", value.ObjectVal(combined))
	}
	return nil
}

// ResolveMeta extracts the meta block, derives the output base name and
// format hint, and applies per-kind bindings. Documents without a meta
// block fail with ErrMissingMeta. The meta content binds only as the
// nested "meta" object, never flattened into top-level variables.
func (d *Document) ResolveMeta() error {
	meta, ok, err := d.rawObject("meta")
	if err != nil {
		return err
	}
	if !ok {
		return ErrMissingMeta
	}

	if kind, ok := meta.Get("kind"); ok && kind.Kind() == value.KindString && kind.AsString() == "docker" {
		if services, ok, err := d.rawObject("services"); err != nil {
			return err
		} else if ok {
			names := make([]value.Value, 0, services.Len())
			for _, k := range services.Keys() {
				names = append(names, value.String(k))
			}
			d.Declare("services", value.Array(names...))
		}
	}

	if file, ok := meta.Get("file"); ok && file.Kind() == value.KindString {
		name := file.AsString()
		if base, ext, found := splitLastDot(name); found {
			d.FileBase = base
			d.Export = ext
		} else {
			d.FileBase = name
			if export, ok := meta.Get("export"); ok && export.Kind() == value.KindString {
				d.Export = export.AsString()
			}
		}
	}

	d.Declare("meta", value.ObjectVal(meta))
	return nil
}

// DeclareBuiltins binds the ambient identifiers every document sees:
// zero values for each type name, plus an engine descriptor carrying
// the syntax revision and package version.
func (d *Document) DeclareBuiltins(version string) {
	d.Declare("boolean", value.Bool(true))
	d.Declare("number", value.Int(0))
	d.Declare("string", value.String(""))
	d.Declare("null", value.Null())
	d.Declare("object", value.ObjectVal(value.NewObject()))
	d.Declare("array", value.Array())

	engine := value.NewObject()
	engine.Set("syntax", value.String("v1"))
	engine.Set("pkg", value.String(version))
	d.Declare("engine", value.ObjectVal(engine))
}

// Evaluate runs the full pass with the given function registry and
// returns the resolved tree with reserved keys stripped.
func (d *Document) Evaluate(reg *funcs.Registry) (value.Value, error) {
	ctx := &hcl.EvalContext{
		Variables: d.vars,
		Functions: reg.Functions(),
	}

	root, err := evalBody(d.body, ctx)
	if err != nil {
		return value.Value{}, fmt.Errorf("evaluating %s: %w", d.name, err)
	}
	for _, key := range reservedKeys {
		root.Delete(key)
	}
	return value.ObjectVal(root), nil
}

// splitLastDot splits a file name on its last dot. Names without a dot
// come back unsplit with found false.
func splitLastDot(name string) (base, ext string, found bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return name, "", false
	}
	return name[:i], name[i+1:], true
}
