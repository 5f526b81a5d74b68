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
	"strings"

	"golang.org/x/xerrors"
)

// Schema is a resolved set of type definitions.
type Schema struct {
	query    *gqlType
	mutation *gqlType
	types    map[string]*gqlType
}

// SchemaConfig declares the types of a schema. Type references are written
// in the usual GraphQL notation: "DateTime", "[Photo!]!", "String".
type SchemaConfig struct {
	// Scalars names the custom scalar types beyond the built-in Int, Float,
	// String, Boolean, and ID.
	Scalars []string
	Enums   []EnumDef
	Objects []ObjectDef
	Inputs  []InputObjectDef
}

// EnumDef declares an enumeration type with a closed set of symbols.
type EnumDef struct {
	Name   string
	Values []string
}

// ObjectDef declares an object type.
type ObjectDef struct {
	Name   string
	Fields []FieldDef
}

// FieldDef declares a single object field and its arguments.
type FieldDef struct {
	Name string
	Type string
	Args []InputDef
}

// InputObjectDef declares an input object type.
type InputObjectDef struct {
	Name   string
	Fields []InputDef
}

// InputDef declares an argument or input object field. If Default is not nil,
// it is coerced to the declared type and applied whenever the caller omits
// the value.
type InputDef struct {
	Name    string
	Type    string
	Default *Input
}

const reservedPrefix = "__"

// NewSchema resolves a schema configuration into type information. The
// configuration must declare an object named "Query" and may declare an
// object named "Mutation".
func NewSchema(config SchemaConfig) (*Schema, error) {
	typeMap, err := buildTypeMap(config)
	if err != nil {
		return nil, xerrors.Errorf("new schema: %w", err)
	}
	schema := &Schema{
		query:    typeMap["Query"],
		mutation: typeMap["Mutation"],
		types:    typeMap,
	}
	if schema.query == nil {
		return nil, xerrors.New("new schema: could not find Query type")
	}
	if !schema.query.isObject() {
		return nil, xerrors.Errorf("new schema: query type %v must be an object", schema.query)
	}
	if schema.mutation != nil && !schema.mutation.isObject() {
		return nil, xerrors.Errorf("new schema: mutation type %v must be an object", schema.mutation)
	}
	return schema, nil
}

func buildTypeMap(config SchemaConfig) (map[string]*gqlType, error) {
	typeMap := make(map[string]*gqlType)
	builtins := []*gqlType{
		booleanType,
		floatType,
		intType,
		stringType,
		idType,
	}
	for _, b := range builtins {
		typeMap[b.String()] = b
	}
	declare := func(name string, typ *gqlType) error {
		if strings.HasPrefix(name, reservedPrefix) {
			return xerrors.Errorf("use of reserved name %q", name)
		}
		if typeMap[name] != nil {
			return xerrors.Errorf("multiple types with name %q", name)
		}
		typeMap[name] = typ
		return nil
	}
	// First pass: fill out lookup table.
	for _, s := range config.Scalars {
		if err := declare(s, newScalarType(s)); err != nil {
			return nil, err
		}
	}
	for _, e := range config.Enums {
		info := &enumType{name: e.Name}
		for _, sym := range e.Values {
			if strings.HasPrefix(sym, reservedPrefix) {
				return nil, xerrors.Errorf("use of reserved name %q", sym)
			}
			if info.has(sym) {
				return nil, xerrors.Errorf("multiple enum values with name %q in %s", sym, e.Name)
			}
			info.symbols = append(info.symbols, sym)
		}
		if err := declare(e.Name, newEnumType(info)); err != nil {
			return nil, err
		}
	}
	for _, o := range config.Objects {
		typ := newObjectType(&objectType{
			name:   o.Name,
			fields: make(map[string]objectTypeField),
		})
		if err := declare(o.Name, typ); err != nil {
			return nil, err
		}
	}
	for _, in := range config.Inputs {
		typ := newInputObjectType(&inputObjectType{
			name:   in.Name,
			fields: make(map[string]inputValueDefinition),
		})
		if err := declare(in.Name, typ); err != nil {
			return nil, err
		}
	}
	// Second pass: fill in object definitions.
	for _, o := range config.Objects {
		if err := fillObjectTypeFields(typeMap, o); err != nil {
			return nil, err
		}
	}
	for _, in := range config.Inputs {
		if err := fillInputObjectTypeFields(typeMap, in); err != nil {
			return nil, err
		}
	}
	return typeMap, nil
}

func fillObjectTypeFields(typeMap map[string]*gqlType, o ObjectDef) error {
	info := typeMap[o.Name].obj
	for _, fieldDefn := range o.Fields {
		fieldName := fieldDefn.Name
		if strings.HasPrefix(fieldName, reservedPrefix) {
			return xerrors.Errorf("use of reserved name %q", fieldName)
		}
		if _, found := info.fields[fieldName]; found {
			return xerrors.Errorf("multiple fields named %q in %s", fieldName, o.Name)
		}
		typ := resolveTypeRef(typeMap, fieldDefn.Type)
		if typ == nil {
			return xerrors.Errorf("field %s.%s: undefined type %s", o.Name, fieldName, fieldDefn.Type)
		}
		if !typ.isOutputType() {
			return xerrors.Errorf("field %s.%s: %v is not an output type", o.Name, fieldName, typ)
		}
		f := objectTypeField{
			name: fieldName,
			typ:  typ,
		}
		if len(fieldDefn.Args) > 0 {
			f.args = make(map[string]inputValueDefinition)
			for _, arg := range fieldDefn.Args {
				if strings.HasPrefix(arg.Name, reservedPrefix) {
					return xerrors.Errorf("use of reserved name %q", arg.Name)
				}
				if _, found := f.args[arg.Name]; found {
					return xerrors.Errorf("multiple arguments named %q for field %s.%s", arg.Name, o.Name, fieldName)
				}
				defn, err := resolveInputDef(typeMap, arg)
				if err != nil {
					return xerrors.Errorf("argument %q for field %s.%s: %w", arg.Name, o.Name, fieldName, err)
				}
				f.args[arg.Name] = defn
			}
		}
		info.fields[fieldName] = f
	}
	return nil
}

func fillInputObjectTypeFields(typeMap map[string]*gqlType, in InputObjectDef) error {
	info := typeMap[in.Name].input
	for _, fieldDefn := range in.Fields {
		fieldName := fieldDefn.Name
		if strings.HasPrefix(fieldName, reservedPrefix) {
			return xerrors.Errorf("use of reserved name %q", fieldName)
		}
		if _, found := info.fields[fieldName]; found {
			return xerrors.Errorf("multiple fields named %q in %s", fieldName, in.Name)
		}
		defn, err := resolveInputDef(typeMap, fieldDefn)
		if err != nil {
			return xerrors.Errorf("input field %s.%s: %w", in.Name, fieldName, err)
		}
		info.fields[fieldName] = defn
	}
	return nil
}

func resolveInputDef(typeMap map[string]*gqlType, def InputDef) (inputValueDefinition, error) {
	typ := resolveTypeRef(typeMap, def.Type)
	if typ == nil {
		return inputValueDefinition{}, xerrors.Errorf("undefined type %s", def.Type)
	}
	if !typ.isInputType() {
		return inputValueDefinition{}, xerrors.Errorf("%v is not an input type", typ)
	}
	defn := inputValueDefinition{defaultValue: Value{typ: typ}}
	if def.Default != nil {
		value, errs := coerceInput(typ, *def.Default)
		if len(errs) > 0 {
			return inputValueDefinition{}, xerrors.Errorf("default value: %w", errs[0])
		}
		defn.defaultValue = value
	}
	return defn, nil
}

// resolveTypeRef resolves a type reference string like "DateTime",
// "[Photo!]!", or "String" against the type map. It returns nil if the
// reference is malformed or names an undeclared type.
func resolveTypeRef(typeMap map[string]*gqlType, ref string) *gqlType {
	ref = strings.TrimSpace(ref)
	switch {
	case strings.HasSuffix(ref, "!"):
		base := resolveTypeRef(typeMap, ref[:len(ref)-1])
		if base == nil {
			return nil
		}
		return base.toNonNullable()
	case strings.HasPrefix(ref, "["):
		if !strings.HasSuffix(ref, "]") {
			return nil
		}
		elem := resolveTypeRef(typeMap, ref[1:len(ref)-1])
		if elem == nil {
			return nil
		}
		return listOf(elem)
	default:
		return typeMap[ref]
	}
}

func (schema *Schema) operationType(opType OperationType) *gqlType {
	switch opType {
	case QueryOperation:
		return schema.query
	case MutationOperation:
		return schema.mutation
	default:
		return nil
	}
}
