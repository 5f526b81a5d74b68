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
	"encoding/json"
	"sort"

	"golang.org/x/xerrors"
)

// A FieldTree is the parsed form of a request: a mapping from field names to
// the arguments and subfields requested for each. It is what remains of a
// query once the wire syntax has been dealt with upstream.
type FieldTree map[string]*FieldNode

// A FieldNode carries the requested arguments and subfields for one field.
// In JSON, a leaf field may be written as true, {}, or null instead of a
// full node.
type FieldNode struct {
	Args   map[string]Input `json:"args,omitempty"`
	Fields FieldTree        `json:"fields,omitempty"`
}

// UnmarshalJSON accepts either a full node object or the leaf shorthands
// true, {}, and null.
func (n *FieldNode) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("null")) {
		*n = FieldNode{}
		return nil
	}
	type rawNode FieldNode
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = FieldNode(raw)
	return nil
}

// A SelectionSet is a collection of object fields that a client is requesting
// for the server to return. The zero value or nil is an empty set.
type SelectionSet struct {
	fields []*SelectedField
}

// newSelectionSet checks a requested field tree against an object type and
// coerces the arguments of each field, applying declared defaults. Field
// names are ordered deterministically. Errors are annotated with the field
// path they occurred under.
func newSelectionSet(typ *gqlType, tree FieldTree) (*SelectionSet, []error) {
	if len(tree) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	set := new(SelectionSet)
	var errs []error
	for _, name := range names {
		node := tree[name]
		if node == nil {
			node = &FieldNode{}
		}
		fieldInfo, ok := typ.obj.field(name)
		if !ok {
			errs = append(errs, &ResponseError{
				Message: "no such field " + name + " on type " + typ.toNullable().String(),
				Path:    []PathSegment{{Field: name}},
			})
			continue
		}
		field := &SelectedField{
			name: name,
			key:  name,
		}
		set.fields = append(set.fields, field)

		if fieldSelType := fieldInfo.typ.selectionSetType(); fieldSelType != nil {
			if len(node.Fields) == 0 {
				errs = append(errs, &ResponseError{
					Message: "field " + name + " of type " + fieldInfo.typ.String() + " must have a selection of subfields",
					Path:    []PathSegment{{Field: name}},
				})
				continue
			}
			var subErrs []error
			field.sub, subErrs = newSelectionSet(fieldSelType, node.Fields)
			for _, err := range subErrs {
				errs = append(errs, wrapFieldError(field.key, err))
			}
		} else if len(node.Fields) > 0 {
			errs = append(errs, &ResponseError{
				Message: "field " + name + " of type " + fieldInfo.typ.String() + " does not permit subfields",
				Path:    []PathSegment{{Field: name}},
			})
			continue
		}
		var argErrs []error
		field.args, argErrs = coerceArgumentValues(fieldInfo, node.Args)
		for _, err := range argErrs {
			errs = append(errs, wrapFieldError(field.key, err))
		}
	}
	return set, errs
}

// coerceArgumentValues converts the supplied argument inputs into values,
// filling in declared defaults for omitted arguments.
func coerceArgumentValues(fieldInfo objectTypeField, args map[string]Input) (map[string]Value, []error) {
	var errs []error
	for name := range args {
		if _, ok := fieldInfo.args[name]; !ok {
			errs = append(errs, xerrors.Errorf("unknown argument %s", name))
		}
	}
	if len(fieldInfo.args) == 0 {
		return nil, errs
	}
	argValues := make(map[string]Value)
	for name, defn := range fieldInfo.args {
		arg, hasValue := args[name]
		if !hasValue {
			if !defn.typ().isNullable() && defn.defaultValue.IsNull() {
				errs = append(errs, xerrors.Errorf("missing required argument %s", name))
				continue
			}
			argValues[name] = defn.defaultValue
			continue
		}
		var argErrs []error
		argValues[name], argErrs = coerceInput(defn.typ(), arg)
		for _, err := range argErrs {
			errs = append(errs, xerrors.Errorf("argument %s: %w", name, err))
		}
	}
	return argValues, errs
}

// Has reports whether the selection set includes the field with the given name.
func (sel *SelectionSet) Has(name string) bool {
	if sel == nil {
		return false
	}
	for _, f := range sel.fields {
		if f.name == name {
			return true
		}
	}
	return false
}

// FieldsWithName returns the fields in the selection set with the given name.
func (sel *SelectionSet) FieldsWithName(name string) []*SelectedField {
	if sel == nil {
		return nil
	}
	var fields []*SelectedField
	for _, f := range sel.fields {
		if f.name == name {
			fields = append(fields, f)
		}
	}
	return fields
}

// SelectedField is a field in a selection set.
type SelectedField struct {
	// key is the response object key to be used. Currently the same as name.
	key string
	// name is the object field name.
	name string

	args map[string]Value
	sub  *SelectionSet
}

// Arg returns the argument with the given name or a null Value if the argument
// doesn't exist.
func (f *SelectedField) Arg(name string) Value {
	return f.args[name]
}

// SelectionSet returns the field's selection set or nil if the field doesn't
// have one.
func (f *SelectedField) SelectionSet() *SelectionSet {
	return f.sub
}
