package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var rowsType = cty.List(cty.List(cty.String))

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

// decodeRows evaluates a rows expression into a matrix of tokens.
func decodeRows(expr hcl.Expression, evalCtx *hcl.EvalContext) ([][]string, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(val, rowsType)
	if err != nil {
		return nil, fmt.Errorf("rows must be a list of lists of strings: %w", err)
	}
	if !converted.IsWhollyKnown() {
		return nil, fmt.Errorf("rows must be known when the run file is loaded")
	}

	var rows [][]string
	if err := gocty.FromCtyValue(converted, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return rows, nil
}

// decodeSeed evaluates a seed expression. Seeds are whole non-negative
// numbers; strings holding one are accepted so that env values work.
func decodeSeed(expr hcl.Expression, evalCtx *hcl.EvalContext) (uint64, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, diags
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("seed must be a number: %w", err)
	}
	var seed uint64
	if err := gocty.FromCtyValue(num, &seed); err != nil {
		return 0, fmt.Errorf("seed must be a whole non-negative number: %w", err)
	}
	return seed, nil
}
