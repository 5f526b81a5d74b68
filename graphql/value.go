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
	"context"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"golang.org/x/xerrors"
)

// A Value is a GraphQL value. The zero value is an untyped null.
//
// For more information on GraphQL types, see https://graphql.org/learn/schema/#type-system
type Value struct {
	typ *gqlType
	val interface{} // one of nil, string, []Value, []Field, or map[string]Value.
}

// Field is a field in an object or input object.
type Field struct {
	// Key is the response object key.
	Key string
	// Value is the field's value.
	Value Value
}

// resolver carries the per-operation resolution settings. Query fields of
// the same object may be resolved concurrently; mutation fields run one at a
// time in order.
type resolver struct {
	concurrent bool
}

// valueFromGo converts a Go value into a GraphQL value. The selection set is
// ignored for scalars.
func (r *resolver) valueFromGo(ctx context.Context, goValue reflect.Value, typ *gqlType, sel *SelectionSet) (Value, []error) {
	// Since this function is recursive, caller must prepend error operation.

	goValue = unwrapPointer(goValue)
	if !goValue.IsValid() {
		if !typ.isNullable() {
			return Value{typ: typ}, []error{xerrors.Errorf("cannot convert nil to %v", typ)}
		}
		return Value{typ: typ, val: nil}, nil
	}
	switch {
	case typ.isScalar() || typ.isEnum():
		v, err := scalarFromGo(goValue, typ)
		if err != nil {
			return Value{typ: typ}, []error{err}
		}
		return v, nil
	case typ.isList():
		if kind := goValue.Kind(); kind != reflect.Slice && kind != reflect.Array {
			return Value{typ: typ}, []error{xerrors.Errorf("cannot convert %v to %v", goValue.Type(), typ)}
		}
		gqlValues := make([]Value, goValue.Len())
		for i := range gqlValues {
			var errs []error
			gqlValues[i], errs = r.valueFromGo(ctx, goValue.Index(i), typ.listElem, sel)
			if len(errs) > 0 {
				for j := range errs {
					errs[j] = &listElementError{idx: i, err: errs[j]}
				}
				return Value{typ: typ}, errs
			}
		}
		return Value{typ: typ, val: gqlValues}, nil
	case typ.isObject():
		if sel == nil {
			return Value{typ: typ, val: []Field(nil)}, nil
		}
		if r.concurrent && len(sel.fields) > 1 {
			return r.objectFromGoConcurrent(ctx, goValue, typ, sel)
		}
		gqlFields := make([]Field, 0, len(sel.fields))
		var errs []error
		for _, f := range sel.fields {
			fval, ferrs := r.readField(ctx, goValue, f, typ.obj.fields[f.name])
			gqlFields = append(gqlFields, Field{Key: f.key, Value: fval})
			errs = append(errs, ferrs...)
		}
		return Value{typ: typ, val: gqlFields}, errs
	default:
		return Value{typ: typ}, []error{xerrors.Errorf("unhandled type: %v", typ)}
	}
}

// objectFromGoConcurrent resolves the selected fields of one object in
// parallel. Sibling fields declare no dependencies on each other, so reads
// against the store, relation lookups, and external calls may overlap.
// Results and errors are joined back in selection order.
func (r *resolver) objectFromGoConcurrent(ctx context.Context, goValue reflect.Value, typ *gqlType, sel *SelectionSet) (Value, []error) {
	gqlFields := make([]Field, len(sel.fields))
	fieldErrs := make([][]error, len(sel.fields))
	var wg sync.WaitGroup
	for i, f := range sel.fields {
		wg.Add(1)
		go func(i int, f *SelectedField) {
			defer wg.Done()
			fval, ferrs := r.readField(ctx, goValue, f, typ.obj.fields[f.name])
			gqlFields[i] = Field{Key: f.key, Value: fval}
			fieldErrs[i] = ferrs
		}(i, f)
	}
	wg.Wait()
	var errs []error
	for _, ferrs := range fieldErrs {
		errs = append(errs, ferrs...)
	}
	return Value{typ: typ, val: gqlFields}, errs
}

// readField resolves a single selected field against a Go value: a direct
// struct field read when the field takes no arguments, or a method call
// otherwise. A failed field reports an error under its path without
// aborting its siblings.
func (r *resolver) readField(ctx context.Context, goValue reflect.Value, f *SelectedField, defn objectTypeField) (Value, []error) {
	if len(defn.args) == 0 && goValue.Kind() == reflect.Struct {
		if fieldValue := findGoField(goValue, f.name); fieldValue.IsValid() {
			v, errs := r.valueFromGo(ctx, fieldValue, defn.typ, f.sub)
			if len(errs) > 0 {
				for i := range errs {
					errs[i] = wrapFieldError(f.key, errs[i])
				}
				return Value{typ: defn.typ}, errs
			}
			return v, nil
		}
	}
	method := findFieldMethod(goValue, f.name)
	if !method.IsValid() {
		return Value{typ: defn.typ}, []error{&ResponseError{
			Message: fmt.Sprintf("no such method or field %q on %v", f.name, goValue.Type()),
			Path:    []PathSegment{{Field: f.key}},
		}}
	}
	methodResult, err := callFieldMethod(ctx, method, f.args, f.sub, defn.typ.selectionSetType() != nil)
	if err != nil {
		return Value{typ: defn.typ}, []error{wrapFieldError(f.key, err)}
	}
	ret, errs := r.valueFromGo(ctx, methodResult, defn.typ, f.sub)
	if len(errs) > 0 {
		for i := range errs {
			errs[i] = wrapFieldError(f.key, errs[i])
		}
	}
	return ret, errs
}

// findGoField returns the struct field for a GraphQL field name: the
// upcased name if present, otherwise a case-insensitive match so that Go
// initialism names like ID and URL still resolve.
func findGoField(v reflect.Value, name string) reflect.Value {
	if fieldValue := v.FieldByName(graphQLToGoFieldName(name)); fieldValue.IsValid() {
		return fieldValue
	}
	lower := toLower(name)
	return v.FieldByNameFunc(func(goName string) bool {
		if c := goName[0]; c < 'A' || 'Z' < c {
			// Never match unexported fields.
			return false
		}
		return toLower(goName) == lower
	})
}

func findFieldMethod(v reflect.Value, name string) reflect.Value {
	v = unwrapPointer(v)
	if v.Kind() != reflect.Interface && v.CanAddr() {
		v = v.Addr()
	}
	if method := v.MethodByName(graphQLToGoFieldName(name)); method.IsValid() {
		return method
	}
	// Go initialism names like ID and URL don't match a first-letter upcase.
	lower := toLower(name)
	vType := v.Type()
	for i, n := 0, vType.NumMethod(); i < n; i++ {
		if toLower(vType.Method(i).Name) == lower {
			return v.Method(i)
		}
	}
	return reflect.Value{}
}

var (
	contextGoType      = reflect.TypeOf(new(context.Context)).Elem()
	argsGoType         = reflect.TypeOf(new(map[string]Value)).Elem()
	selectionSetGoType = reflect.TypeOf(new(*SelectionSet)).Elem()
	errorGoType        = reflect.TypeOf(new(error)).Elem()
	valueMapGoType     = reflect.TypeOf(new(map[string]Value)).Elem()
)

func callFieldMethod(ctx context.Context, method reflect.Value, args map[string]Value, sel *SelectionSet, passSel bool) (reflect.Value, error) {
	mtype := method.Type()
	numIn := mtype.NumIn()
	var callArgs []reflect.Value
	if len(callArgs) < numIn && mtype.In(len(callArgs)) == contextGoType {
		callArgs = append(callArgs, reflect.ValueOf(ctx))
	}
	if len(callArgs) < numIn && mtype.In(len(callArgs)) == argsGoType {
		callArgs = append(callArgs, reflect.ValueOf(args))
	}
	if passSel {
		if len(callArgs) < numIn && mtype.In(len(callArgs)) == selectionSetGoType {
			callArgs = append(callArgs, reflect.ValueOf(sel))
		}
	}
	if len(callArgs) != numIn {
		return reflect.Value{}, xerrors.New("server method: wrong parameter signature")
	}

	switch mtype.NumOut() {
	case 1:
		if mtype.Out(0) == errorGoType {
			return reflect.Value{}, xerrors.New("server method: return type must not be error")
		}
		out := method.Call(callArgs)
		return out[0], nil
	case 2:
		if mtype.Out(0) == errorGoType {
			return reflect.Value{}, xerrors.New("server method: first return type must not be error")
		}
		if got := mtype.Out(1); got != errorGoType {
			return reflect.Value{}, xerrors.Errorf("server method: second return type must be error (found %v)", got)
		}
		out := method.Call(callArgs)
		if !out[1].IsNil() {
			// Intentionally making the returned error opaque to avoid interference in
			// toResponseError.
			err := out[1].Interface().(error)
			return reflect.Value{}, xerrors.Errorf("server error: %v", err)
		}
		return out[0], nil
	default:
		return reflect.Value{}, xerrors.New("server method: wrong return signature")
	}
}

func scalarFromGo(goValue reflect.Value, typ *gqlType) (Value, error) {
	goValue = unwrapPointer(goValue)
	if !goValue.IsValid() {
		if !typ.isNullable() {
			return Value{}, xerrors.Errorf("cannot convert nil to %v", typ)
		}
		return Value{typ: typ, val: nil}, nil
	}
	if isGraphQLNull(interfaceValueForAssertions(goValue)) {
		if !typ.isNullable() {
			return Value{}, xerrors.Errorf("cannot convert null to %v", typ)
		}
		return Value{typ: typ, val: nil}, nil
	}
	switch typ.toNullable() {
	case booleanType:
		if goValue.Kind() != reflect.Bool {
			return Value{}, xerrors.Errorf("cannot convert %v to %v", goValue.Type(), typ)
		}
		return Value{typ: typ, val: strconv.FormatBool(goValue.Bool())}, nil
	case intType:
		if goValue.Kind() != reflect.Int32 && goValue.Kind() != reflect.Int {
			return Value{}, xerrors.Errorf("cannot convert %v to %v", goValue.Type(), typ)
		}
		i := goValue.Int()
		const maxInt32 = 1 << 31
		const minInt32 = -maxInt32 - 1
		if i < minInt32 || maxInt32 < i {
			return Value{}, xerrors.New("integer out of GraphQL range")
		}
		return Value{typ: typ, val: strconv.FormatInt(i, 10)}, nil
	case floatType:
		var bitSize int
		switch goValue.Kind() {
		case reflect.Float32:
			bitSize = 32
		case reflect.Float64:
			bitSize = 64
		default:
			return Value{}, xerrors.Errorf("cannot convert %v to %v", goValue.Type(), typ)
		}
		val := strconv.FormatFloat(goValue.Float(), 'g', -1, bitSize)
		return Value{typ: typ, val: val}, nil
	case idType:
		if k := goValue.Kind(); k == reflect.Int32 || k == reflect.Int || k == reflect.Int64 {
			return Value{typ: typ, val: strconv.FormatInt(goValue.Int(), 10)}, nil
		}
		fallthrough
	default:
		switch goIface := interfaceValueForAssertions(goValue).(type) {
		case encoding.TextMarshaler:
			text, err := goIface.MarshalText()
			if err != nil {
				return Value{}, err
			}
			return Value{typ: typ, val: string(text)}, nil
		case fmt.Stringer:
			return Value{typ: typ, val: goIface.String()}, nil
		}
		if goValue.Kind() != reflect.String {
			return Value{typ: typ}, xerrors.Errorf("cannot convert %v to %v", goValue.Type(), typ)
		}
		val := goValue.String()
		if typ.isEnum() && !typ.enum.has(val) {
			return Value{typ: typ}, xerrors.Errorf("%q is not a valid value for %v", val, typ)
		}
		return Value{typ: typ, val: val}, nil
	}
}

func unwrapPointer(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// interfaceValueForAssertions returns the value's innermost pointer or v itself
// if v does not represent a pointer.
func interfaceValueForAssertions(v reflect.Value) interface{} {
	v = unwrapPointer(v)
	if v.Kind() == reflect.Interface || !v.CanAddr() {
		return v.Interface()
	}
	return v.Addr().Interface()
}

// GoValue dumps the value into one of the following Go types:
//
//   - nil interface{} for null
//   - string for scalars
//   - []interface{} for lists
//   - map[string]interface{} for objects
func (v Value) GoValue() interface{} {
	switch val := v.val.(type) {
	case nil:
		return nil
	case string:
		return val
	case []Value:
		goVal := make([]interface{}, len(val))
		for i, vv := range val {
			goVal[i] = vv.GoValue()
		}
		return goVal
	case []Field:
		goVal := make(map[string]interface{}, len(val))
		for _, f := range val {
			goVal[f.Key] = f.Value.GoValue()
		}
		return goVal
	case map[string]Value:
		goVal := make(map[string]interface{}, len(val))
		for k, vv := range val {
			goVal[k] = vv.GoValue()
		}
		return goVal
	default:
		panic("unknown type in Value.val")
	}
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.val == nil
}

// Boolean reports if v is a scalar with the value "true".
func (v Value) Boolean() bool {
	return v.val == "true"
}

// Scalar returns the string value of v if it is a scalar or the empty
// string otherwise.
func (v Value) Scalar() string {
	s, _ := v.val.(string)
	return s
}

// Len returns the number of elements in v. Len panics if v is not a list or null.
func (v Value) Len() int {
	if v.val == nil {
		return 0
	}
	return len(v.val.([]Value))
}

// At returns v's i'th element. At panics if v is not a list or i is not in the
// range [0, v.Len()).
func (v Value) At(i int) Value {
	list := v.val.([]Value)
	return list[i]
}

// NumFields returns the number of fields in v. NumFields panics if v is not
// null, an object, or an input object.
func (v Value) NumFields() int {
	switch val := v.val.(type) {
	case nil:
		return 0
	case []Field:
		return len(val)
	case map[string]Value:
		return len(val)
	default:
		panic(fmt.Sprintf("invalid value for NumFields: %T", v.val))
	}
}

// Field returns v's i'th field. Field panics if v is not an object or i is not
// in the range [0, v.NumFields()).
func (v Value) Field(i int) Field {
	fields := v.val.([]Field)
	return fields[i]
}

// ValueFor returns the value of the field with the given key or the zero Value
// if v does not have the given key. ValueFor panics if v is not an object or
// input object.
func (v Value) ValueFor(key string) Value {
	switch val := v.val.(type) {
	case []Field:
		for _, f := range val {
			if f.Key == key {
				return f.Value
			}
		}
		return Value{}
	case map[string]Value:
		return val[key]
	default:
		panic(fmt.Sprintf("invalid value for ValueFor(): %T", v.val))
	}
}

// MarshalJSON converts the value to JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch val := v.val.(type) {
	case nil:
		return []byte("null"), nil
	case string:
		if typ := v.typ.toNullable(); typ == booleanType || typ == intType || typ == floatType {
			// Can use as JSON literal.
			return []byte(val), nil
		}
		return json.Marshal(val)
	case []Value, map[string]Value:
		return json.Marshal(val)
	case []Field:
		var buf []byte
		buf = append(buf, '{')
		for i, f := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return nil, err
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			fval, err := json.Marshal(f.Value)
			if err != nil {
				return nil, err
			}
			buf = append(buf, fval...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		panic("unknown type in Value.typ")
	}
}

func graphQLToGoFieldName(name string) string {
	if c := name[0]; 'a' <= c && c <= 'z' {
		return string(c-'a'+'A') + name[1:]
	}
	return name
}

func toLower(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c = c - 'A' + 'a'
		}
		b = append(b, c)
	}
	return string(b)
}
