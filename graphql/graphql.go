// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"go.opencensus.io/trace"
	"golang.org/x/xerrors"
)

// Server manages execution of GraphQL operations.
type Server struct {
	schema   *Schema
	query    operation
	mutation operation
}

// NewServer returns a new server that is backed by the given query object and
// optional mutation object. These must either be objects that follow the rules
// laid out in Field Resolution in the package documentation, or functions that
// return such objects. Functions may have up to two parameters: an optional
// context.Context followed by an optional *SelectionSet. The function may also
// have an error return.
func NewServer(schema *Schema, query, mutation interface{}) (*Server, error) {
	// Check for missing or extra arguments first.
	if query == nil {
		return nil, xerrors.New("new server: query is required")
	}
	if mutation == nil && schema.mutation != nil {
		return nil, xerrors.New("new server: schema specified mutation type, but no mutation object given")
	}
	if mutation != nil && schema.mutation == nil {
		return nil, xerrors.New("new server: mutation object given, but no mutation type")
	}

	srv := &Server{
		schema: schema,
	}
	var err error
	srv.query, err = newOperation(schema.query, query)
	if err != nil {
		return nil, xerrors.Errorf("new server: %w", err)
	}
	srv.mutation, err = newOperation(schema.mutation, mutation)
	if err != nil {
		return nil, xerrors.Errorf("new server: %w", err)
	}
	return srv, nil
}

// Schema returns the schema passed to NewServer. It is safe to call from
// multiple goroutines.
func (srv *Server) Schema() *Schema {
	return srv.schema
}

// Execute runs a single GraphQL operation. It is safe to call Execute from
// multiple goroutines.
func (srv *Server) Execute(ctx context.Context, req Request) Response {
	opType := req.Operation
	if opType == 0 {
		opType = QueryOperation
	}
	ctx, span := trace.StartSpan(ctx, "graphql.Execute")
	span.AddAttributes(trace.StringAttribute("graphql.operation", opType.String()))
	defer span.End()

	data, errs := srv.resolve(ctx, opType, req.Fields)
	resp := Response{
		Data: data,
	}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, toResponseError(err))
	}
	if len(resp.Errors) > 0 {
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: resp.Errors[0].Message})
	}
	return resp
}

func (srv *Server) resolve(ctx context.Context, opType OperationType, fields FieldTree) (Value, []error) {
	gt, obj, err := srv.operationFor(opType)
	if err != nil {
		return Value{}, []error{&ResponseError{Message: err.Error()}}
	}
	sel, errs := newSelectionSet(gt, fields)
	if len(errs) > 0 {
		return Value{}, errs
	}
	if sel == nil {
		return Value{}, []error{&ResponseError{Message: "no fields requested"}}
	}
	value := obj.value
	if obj.flags&operationFunc != 0 {
		var args []reflect.Value
		if obj.flags&operationContextParam != 0 {
			args = append(args, reflect.ValueOf(ctx))
		}
		if obj.flags&operationSelectionSetParam != 0 {
			args = append(args, reflect.ValueOf(sel))
		}
		ret := value.Call(args)
		if len(ret) == 2 {
			if err, _ := ret[1].Interface().(error); err != nil {
				// Intentionally making the returned error opaque to avoid interference in
				// toResponseError.
				return Value{}, []error{xerrors.Errorf("server error: %v", err)}
			}
		}
		value = ret[0]
	}
	// Mutation fields run serially so each mutation completes as one unit of
	// work; query fields of the same object may resolve concurrently.
	r := &resolver{concurrent: opType == QueryOperation}
	return r.valueFromGo(ctx, value, gt, sel)
}

func (srv *Server) operationFor(opType OperationType) (*gqlType, operation, error) {
	switch opType {
	case QueryOperation:
		return srv.schema.query, srv.query, nil
	case MutationOperation:
		if !srv.mutation.value.IsValid() {
			return nil, operation{}, xerrors.New("unsupported operation type")
		}
		return srv.schema.mutation, srv.mutation, nil
	default:
		return nil, operation{}, xerrors.New("unsupported operation type")
	}
}

type operation struct {
	value reflect.Value
	flags operationFlags
}

type operationFlags uint8

const (
	operationFunc operationFlags = 1 << iota
	operationContextParam
	operationSelectionSetParam
)

func newOperation(gt *gqlType, v interface{}) (operation, error) {
	if v == nil {
		return operation{}, nil
	}
	value := reflect.ValueOf(v)
	if value.Kind() == reflect.Func {
		return newOperationFunc(gt, value)
	}
	return operation{value: value}, nil
}

func newOperationFunc(gt *gqlType, value reflect.Value) (operation, error) {
	flags := operationFunc
	typ := value.Type()
	numIn := typ.NumIn()
	argIdx := 0
	if argIdx < numIn && typ.In(argIdx) == contextGoType {
		flags |= operationContextParam
		argIdx++
	}
	if argIdx < numIn && typ.In(argIdx) == selectionSetGoType {
		flags |= operationSelectionSetParam
		argIdx++
	}
	if argIdx < numIn {
		return operation{}, xerrors.Errorf("cannot use %v to provide %v: incorrect parameters", typ, gt)
	}
	switch typ.NumOut() {
	case 1:
		if typ.Out(0) == errorGoType {
			return operation{}, xerrors.Errorf("cannot use %v to provide %v: first return value must be non-error", typ, gt)
		}
	case 2:
		if typ.Out(0) == errorGoType {
			return operation{}, xerrors.Errorf("cannot use %v to provide %v: first return value must be non-error", typ, gt)
		}
		if typ.Out(1) != errorGoType {
			return operation{}, xerrors.Errorf("cannot use %v to provide %v: second return value must be error", typ, gt)
		}
	default:
		return operation{}, xerrors.Errorf("cannot use %v to provide %v: must have 1-2 return values", typ, gt)
	}
	return operation{
		value: value,
		flags: flags,
	}, nil
}

// OperationType represents the kinds of operations.
type OperationType int

// Types of operations.
const (
	QueryOperation OperationType = 1 + iota
	MutationOperation
)

// String returns the keyword corresponding to the operation type.
func (typ OperationType) String() string {
	switch typ {
	case QueryOperation:
		return "query"
	case MutationOperation:
		return "mutation"
	default:
		return fmt.Sprintf("OperationType(%d)", int(typ))
	}
}

// MarshalText returns the operation keyword.
func (typ OperationType) MarshalText() ([]byte, error) {
	switch typ {
	case QueryOperation, MutationOperation:
		return []byte(typ.String()), nil
	default:
		return nil, xerrors.Errorf("unknown operation type %d", int(typ))
	}
}

// UnmarshalText parses "query" or "mutation". Empty text is treated as a
// query.
func (typ *OperationType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "query":
		*typ = QueryOperation
	case "mutation":
		*typ = MutationOperation
	default:
		return xerrors.Errorf("unknown operation type %q", text)
	}
	return nil
}

// Request holds the inputs for a GraphQL execution: the operation kind and
// the tree of requested fields. The request does not carry query-language
// text; parsing the wire syntax is the concern of whatever sits upstream.
type Request struct {
	// Operation selects between the query and mutation objects. The zero
	// value means query.
	Operation OperationType `json:"operation,omitempty"`
	// Fields is the requested field tree.
	Fields FieldTree `json:"fields"`
}

// Response holds the output of a GraphQL operation.
type Response struct {
	Data   Value            `json:"data"`
	Errors []*ResponseError `json:"errors,omitempty"`
}

// MarshalJSON converts the response to JSON format.
func (resp Response) MarshalJSON() ([]byte, error) {
	var buf []byte
	buf = append(buf, '{')
	if len(resp.Errors) > 0 {
		buf = append(buf, `"errors":`...)
		errorsData, err := json.Marshal(resp.Errors)
		if err != nil {
			return buf, xerrors.Errorf("marshal response: %w", err)
		}
		buf = append(buf, errorsData...)
		if !resp.Data.IsNull() {
			buf = append(buf, ',')
		}
	}
	if !resp.Data.IsNull() {
		buf = append(buf, `"data":`...)
		data, err := json.Marshal(resp.Data)
		if err != nil {
			return buf, xerrors.Errorf("marshal response: %w", err)
		}
		buf = append(buf, data...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// ResponseError describes an error that occurred during the processing of a
// GraphQL operation.
type ResponseError struct {
	Message string        `json:"message"`
	Path    []PathSegment `json:"path,omitempty"`
}

// Error returns e.Message.
func (e *ResponseError) Error() string {
	return e.Message
}

func toResponseError(e error) *ResponseError {
	re, ok := e.(*ResponseError)
	if ok {
		// e is a *ResponseError.
		return re
	}
	// Build a new response error.
	re = &ResponseError{
		Message: e.Error(),
	}
	for ; e != nil; e = xerrors.Unwrap(e) {
		switch e := e.(type) {
		case *ResponseError:
			re.Path = append(re.Path, e.Path...)
		case *fieldError:
			re.Path = append(re.Path, PathSegment{Field: e.key})
		case *listElementError:
			re.Path = append(re.Path, PathSegment{ListIndex: e.idx})
		}
	}
	return re
}

type fieldError struct {
	key string
	err error
}

func wrapFieldError(key string, err error) error {
	if key == "" {
		panic("empty key")
	}
	return &fieldError{
		key: key,
		err: err,
	}
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.key, e.err)
}

func (e *fieldError) Unwrap() error {
	return e.err
}

type listElementError struct {
	idx int
	err error
}

func (e *listElementError) Error() string {
	return fmt.Sprintf("list[%d]: %v", e.idx, e.err)
}

func (e *listElementError) Unwrap() error {
	return e.err
}

// PathSegment identifies a field or array index in an output object.
type PathSegment struct {
	Field     string
	ListIndex int
}

// String returns the segment's index or field name as a string.
func (seg PathSegment) String() string {
	if seg.Field == "" {
		return strconv.Itoa(seg.ListIndex)
	}
	return seg.Field
}

// MarshalJSON converts the segment to a JSON integer or a JSON string.
func (seg PathSegment) MarshalJSON() ([]byte, error) {
	if seg.Field == "" {
		return strconv.AppendInt(nil, int64(seg.ListIndex), 10), nil
	}
	return json.Marshal(seg.Field)
}

// UnmarshalJSON converts JSON strings into field segments and JSON numbers into
// list index segments.
func (seg *PathSegment) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(data, []byte(`"`)) {
		i, err := json.Number(string(data)).Int64()
		if err != nil {
			return err
		}
		seg.ListIndex = int(i)
		return nil
	}
	err := json.Unmarshal(data, &seg.Field)
	return err
}
