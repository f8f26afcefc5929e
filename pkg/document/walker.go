package document

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/theMackabu/ship/pkg/value"
)

// bodyItem is one top-level entry of a body, ordered by source offset so
// the produced object preserves the author's key order.
type bodyItem struct {
	offset int
	attr   *hclsyntax.Attribute
	block  *hclsyntax.Block
}

// evalBody evaluates every attribute and nested block of a body into an
// ordered object. A nil ctx evaluates literals only; any reference or
// call then fails, which is how reserved blocks are read before
// variables exist.
func evalBody(body *hclsyntax.Body, ctx *hcl.EvalContext) (*value.Object, error) {
	items := make([]bodyItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, bodyItem{offset: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, bodyItem{offset: block.TypeRange.Start.Byte, block: block})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	obj := value.NewObject()
	for _, item := range items {
		if item.attr != nil {
			v, err := evalExpression(item.attr.Expr, ctx)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", item.attr.Name, err)
			}
			obj.Set(item.attr.Name, v)
			continue
		}
		if err := mergeBlock(obj, item.block, ctx); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// mergeBlock evaluates a block body and nests it under its type and
// labels. Repeated blocks along the same path merge into one object,
// later entries extending earlier ones.
func mergeBlock(root *value.Object, block *hclsyntax.Block, ctx *hcl.EvalContext) error {
	inner, err := evalBody(block.Body, ctx)
	if err != nil {
		return fmt.Errorf("block %q: %w", block.Type, err)
	}

	path := append([]string{block.Type}, block.Labels...)
	target := root
	for _, seg := range path[:len(path)-1] {
		existing, ok := target.Get(seg)
		if ok && existing.Kind() == value.KindObject {
			target = existing.AsObject()
			continue
		}
		next := value.NewObject()
		target.Set(seg, value.ObjectVal(next))
		target = next
	}

	last := path[len(path)-1]
	if existing, ok := target.Get(last); ok && existing.Kind() == value.KindObject {
		existing.AsObject().Extend(inner)
		return nil
	}
	target.Set(last, value.ObjectVal(inner))
	return nil
}

// evalExpression evaluates one expression. Object and tuple constructors
// are walked item by item so syntactic key order survives; everything
// else goes through the expression evaluator directly.
func evalExpression(expr hclsyntax.Expression, ctx *hcl.EvalContext) (value.Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		obj := value.NewObject()
		for _, item := range e.Items {
			kv, diags := item.KeyExpr.Value(ctx)
			if diags.HasErrors() {
				return value.Value{}, fmt.Errorf("object key: %s", diags.Error())
			}
			key, err := value.FromCty(kv)
			if err != nil {
				return value.Value{}, fmt.Errorf("object key: %w", err)
			}
			v, err := evalExpression(item.ValueExpr, ctx)
			if err != nil {
				return value.Value{}, err
			}
			obj.Set(key.Text(), v)
		}
		return value.ObjectVal(obj), nil

	case *hclsyntax.TupleConsExpr:
		elems := make([]value.Value, len(e.Exprs))
		for i, sub := range e.Exprs {
			v, err := evalExpression(sub, ctx)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.Array(elems...), nil

	default:
		cv, diags := expr.Value(ctx)
		if diags.HasErrors() {
			return value.Value{}, fmt.Errorf("%s", diags.Error())
		}
		return value.FromCty(cv)
	}
}
