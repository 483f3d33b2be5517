package ast

import (
	"encoding/json"
	"fmt"
	"math"
)

// DecodeFile structures a deserialized program document (the output of
// encoding/json into map[string]any) as a File tree. Any structural
// violation is reported before evaluation can begin.
func DecodeFile(doc map[string]any) (*File, error) {
	name, _ := doc["name"].(string)
	exprRaw, ok := doc["expression"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("file %q missing expression", name)
	}
	expr, err := DecodeTerm(exprRaw)
	if err != nil {
		return nil, err
	}
	return NewFile(decodeLoc(doc), name, expr), nil
}

// DecodeTerm structures a single tagged node. The document spells the variant
// in a "kind" field; every other field depends on the kind.
func DecodeTerm(node map[string]any) (Term, error) {
	kind, _ := node["kind"].(string)
	loc := decodeLoc(node)
	switch NodeType(kind) {
	case NodeInt:
		val, err := decodeInt(node["value"])
		if err != nil {
			return nil, fmt.Errorf("%s: Int node: %w", loc, err)
		}
		return NewIntLiteral(loc, val), nil
	case NodeStr:
		val, ok := node["value"].(string)
		if !ok {
			return nil, fmt.Errorf("%s: Str node requires a string value, got %T", loc, node["value"])
		}
		return NewStrLiteral(loc, val), nil
	case NodeBool:
		val, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("%s: Bool node requires a boolean value, got %T", loc, node["value"])
		}
		return NewBoolLiteral(loc, val), nil
	case NodeVar:
		text, ok := node["text"].(string)
		if !ok || text == "" {
			return nil, fmt.Errorf("%s: Var node requires a name", loc)
		}
		return NewVar(loc, text), nil
	case NodeLet:
		name, err := decodeParameter(node["name"])
		if err != nil {
			return nil, fmt.Errorf("%s: Let node: %w", loc, err)
		}
		value, err := decodeChild(node, "value")
		if err != nil {
			return nil, err
		}
		next, err := decodeChild(node, "next")
		if err != nil {
			return nil, err
		}
		return NewLet(loc, name, value, next), nil
	case NodeFunction:
		paramsRaw, ok := node["parameters"].([]any)
		if !ok {
			return nil, fmt.Errorf("%s: Function node missing parameters", loc)
		}
		params := make([]*Parameter, 0, len(paramsRaw))
		for _, raw := range paramsRaw {
			param, err := decodeParameter(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: Function node: %w", loc, err)
			}
			params = append(params, param)
		}
		value, err := decodeChild(node, "value")
		if err != nil {
			return nil, err
		}
		return NewFunction(loc, params, value), nil
	case NodeIf:
		condition, err := decodeChild(node, "condition")
		if err != nil {
			return nil, err
		}
		then, err := decodeChild(node, "then")
		if err != nil {
			return nil, err
		}
		otherwise, err := decodeChild(node, "otherwise")
		if err != nil {
			return nil, err
		}
		return NewIf(loc, condition, then, otherwise), nil
	case NodeBinary:
		lhs, err := decodeChild(node, "lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := decodeChild(node, "rhs")
		if err != nil {
			return nil, err
		}
		op, err := decodeOp(node["op"])
		if err != nil {
			return nil, fmt.Errorf("%s: Binary node: %w", loc, err)
		}
		return NewBinary(loc, lhs, op, rhs), nil
	case NodeCall:
		callee, err := decodeChild(node, "callee")
		if err != nil {
			return nil, err
		}
		argsRaw, ok := node["arguments"].([]any)
		if !ok {
			return nil, fmt.Errorf("%s: Call node missing arguments", loc)
		}
		args := make([]Term, 0, len(argsRaw))
		for _, raw := range argsRaw {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: Call argument is %T, not a node", loc, raw)
			}
			arg, err := DecodeTerm(child)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return NewCall(loc, callee, args), nil
	case NodePrint:
		value, err := decodeChild(node, "value")
		if err != nil {
			return nil, err
		}
		return NewPrint(loc, value), nil
	case NodeTuple:
		first, err := decodeChild(node, "first")
		if err != nil {
			return nil, err
		}
		second, err := decodeChild(node, "second")
		if err != nil {
			return nil, err
		}
		return NewTuple(loc, first, second), nil
	case NodeFirst:
		value, err := decodeChild(node, "value")
		if err != nil {
			return nil, err
		}
		return NewFirst(loc, value), nil
	case NodeSecond:
		value, err := decodeChild(node, "value")
		if err != nil {
			return nil, err
		}
		return NewSecond(loc, value), nil
	case "":
		return nil, fmt.Errorf("%s: node missing kind tag", loc)
	default:
		return nil, fmt.Errorf("%s: unknown node kind %q", loc, kind)
	}
}

func decodeChild(node map[string]any, field string) (Term, error) {
	child, ok := node[field].(map[string]any)
	if !ok {
		kind, _ := node["kind"].(string)
		return nil, fmt.Errorf("%s: %s node missing %s", decodeLoc(node), kind, field)
	}
	return DecodeTerm(child)
}

func decodeParameter(raw any) (*Parameter, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parameter is %T, not an object", raw)
	}
	text, ok := obj["text"].(string)
	if !ok || text == "" {
		return nil, fmt.Errorf("parameter requires a text field")
	}
	return NewParameter(decodeLoc(obj), text), nil
}

func decodeOp(raw any) (BinaryOp, error) {
	name, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("operator is %T, not a string", raw)
	}
	op := BinaryOp(name)
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpEq, OpNeq, OpLt, OpGt, OpLte, OpGte, OpAnd, OpOr:
		return op, nil
	default:
		return "", fmt.Errorf("unknown operator %q", name)
	}
}

// decodeInt accepts json.Number (decoders configured with UseNumber) as well
// as float64 (plain decoders), rejecting fractional payloads either way.
func decodeInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		val, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("integer value %s out of range", v.String())
		}
		return val, nil
	case float64:
		// float64 represents -2^63 exactly but nothing at or above 2^63.
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("integer value %v not representable", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("integer value is %T, not a number", raw)
	}
}

func decodeLoc(node map[string]any) Loc {
	obj, ok := node["location"].(map[string]any)
	if !ok {
		return Loc{}
	}
	start, _ := decodeInt(obj["start"])
	end, _ := decodeInt(obj["end"])
	filename, _ := obj["filename"].(string)
	return Loc{Start: int(start), End: int(end), Filename: filename}
}
