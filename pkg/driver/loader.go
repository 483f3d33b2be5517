package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"rinha/interpreter-go/pkg/ast"
	"rinha/interpreter-go/pkg/interpreter"
)

// Load reads a serialized AST document from disk and structures it as a File
// tree ready for evaluation.
func Load(path string) (*ast.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program %s: %w", path, err)
	}
	return Decode(data)
}

// Decode structures a serialized AST document. JSON syntax problems surface
// as plain decode errors; a well-formed document that violates the node model
// is rejected with a MalformedTree evaluation error before any evaluation.
func Decode(data []byte) (*ast.File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse program document: %w", err)
	}
	file, err := ast.DecodeFile(doc)
	if err != nil {
		return nil, &interpreter.EvalError{Kind: interpreter.ErrMalformedTree, Message: err.Error()}
	}
	return file, nil
}

// DecodeTerm structures a single serialized term, as entered at the REPL.
func DecodeTerm(data []byte) (ast.Term, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse term document: %w", err)
	}
	term, err := ast.DecodeTerm(doc)
	if err != nil {
		return nil, &interpreter.EvalError{Kind: interpreter.ErrMalformedTree, Message: err.Error()}
	}
	return term, nil
}
