// Package rpc exposes the post and category operations as typed remote
// procedures over HTTP and JSON.
//
// A query is called with GET /rpc/{procedure}?input=<json> or with a POST
// whose body is the JSON input. A mutation must be POSTed. Results are wrapped
// as {"data": ...} and failures as {"error": {"code": ..., "message": ...}}.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
)

type kind int

const (
	kindQuery kind = iota
	kindMutation
)

// procedure is a registered operation with its input decoding erased.
type procedure struct {
	kind kind
	call func(ctx context.Context, raw json.RawMessage) (any, error)
}

// inputError reports an input that is not valid JSON for the procedure.
type inputError struct {
	err error
}

func (e *inputError) Error() string { return "invalid input: " + e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

// typed adapts fn into a procedure that decodes its input into In. An absent
// or null input leaves In at its zero value.
func typed[In, Out any](k kind, fn func(ctx context.Context, in In) (Out, error)) procedure {
	return procedure{
		kind: k,
		call: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var in In
			if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
				if err := json.Unmarshal(trimmed, &in); err != nil {
					return nil, &inputError{err: err}
				}
			}
			return fn(ctx, in)
		},
	}
}

func query[In, Out any](fn func(ctx context.Context, in In) (Out, error)) procedure {
	return typed(kindQuery, fn)
}

func mutation[In, Out any](fn func(ctx context.Context, in In) (Out, error)) procedure {
	return typed(kindMutation, fn)
}

// noInput is the input of procedures that take none.
type noInput struct{}

type idInput struct {
	ID int64 `json:"id"`
}

type slugInput struct {
	Slug string `json:"slug"`
}

type filterInput struct {
	Category string `json:"category"`
	Query    string `json:"query"`
}

type successOutput struct {
	Success bool `json:"success"`
}
