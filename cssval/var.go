package cssval

import (
	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// maxVarDepth bounds var() recursion to 10 levels of nested expansion.
const maxVarDepth = 10

// CustomProperties is the cascaded custom-property table for one element:
// name (including the leading "--") to its winning component-value list.
type CustomProperties map[string][]cssom.ComponentValue

// ExpandVar substitutes every var() reference in value against props,
// returning the value with all custom properties resolved. An
// unresolvable reference with no fallback causes the property to
// compute to its initial value, signaled by returning ok=false; an
// unresolvable reference WITH a fallback uses the fallback.
func ExpandVar(value []cssom.ComponentValue, props CustomProperties) ([]cssom.ComponentValue, bool) {
	out, ok := expandVarDepth(value, props, 0)
	return out, ok
}

func expandVarDepth(value []cssom.ComponentValue, props CustomProperties, depth int) ([]cssom.ComponentValue, bool) {
	if depth >= maxVarDepth {
		return nil, false
	}
	var out []cssom.ComponentValue
	for _, cv := range value {
		if cv.Kind == cssom.CVFunction && asciifold.Equal(cv.Name, "var") {
			expanded, ok := expandOneVar(cv, props, depth)
			if !ok {
				return nil, false
			}
			out = append(out, expanded...)
			continue
		}
		if cv.Kind == cssom.CVFunction {
			innerArgs, ok := expandVarDepth(cv.Value, props, depth)
			if !ok {
				return nil, false
			}
			out = append(out, cssom.ComponentValue{Kind: cssom.CVFunction, Name: cv.Name, Value: innerArgs})
			continue
		}
		if cv.Kind == cssom.CVBlock {
			innerVal, ok := expandVarDepth(cv.Value, props, depth)
			if !ok {
				return nil, false
			}
			out = append(out, cssom.ComponentValue{Kind: cssom.CVBlock, Open: cv.Open, Value: innerVal})
			continue
		}
		out = append(out, cv)
	}
	return out, true
}

func expandOneVar(cv cssom.ComponentValue, props CustomProperties, depth int) ([]cssom.ComponentValue, bool) {
	args := trimCV(cv.Value)
	if len(args) == 0 || args[0].Kind != cssom.CVToken || args[0].Token.Kind != csstok.Ident {
		return nil, false
	}
	name := args[0].Token.Value
	var fallback []cssom.ComponentValue
	hasFallback := false
	rest := trimCV(args[1:])
	if len(rest) > 0 && rest[0].IsToken(csstok.Comma) {
		hasFallback = true
		fallback = trimCV(rest[1:])
	}

	if resolved, ok := props[name]; ok {
		return expandVarDepth(resolved, props, depth+1)
	}
	if hasFallback {
		return expandVarDepth(fallback, props, depth+1)
	}
	return nil, false
}
