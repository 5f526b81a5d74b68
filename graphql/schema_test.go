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
	"testing"
)

func TestNewSchema(t *testing.T) {
	badDefault := ScalarInput("SIDEWAYS")
	tests := []struct {
		name    string
		config  SchemaConfig
		wantErr bool
	}{
		{
			name: "Minimal",
			config: SchemaConfig{
				Objects: []ObjectDef{
					{Name: "Query", Fields: []FieldDef{
						{Name: "ok", Type: "Boolean!"},
					}},
				},
			},
		},
		{
			name:    "MissingQuery",
			config:  SchemaConfig{},
			wantErr: true,
		},
		{
			name: "QueryNotObject",
			config: SchemaConfig{
				Scalars: []string{"Query"},
			},
			wantErr: true,
		},
		{
			name: "UndefinedFieldType",
			config: SchemaConfig{
				Objects: []ObjectDef{
					{Name: "Query", Fields: []FieldDef{
						{Name: "thing", Type: "Thing!"},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "DuplicateTypeName",
			config: SchemaConfig{
				Scalars: []string{"Thing"},
				Objects: []ObjectDef{
					{Name: "Thing"},
					{Name: "Query", Fields: []FieldDef{
						{Name: "ok", Type: "Boolean!"},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "ReservedTypeName",
			config: SchemaConfig{
				Scalars: []string{"__Thing"},
				Objects: []ObjectDef{
					{Name: "Query", Fields: []FieldDef{
						{Name: "ok", Type: "Boolean!"},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "DuplicateField",
			config: SchemaConfig{
				Objects: []ObjectDef{
					{Name: "Query", Fields: []FieldDef{
						{Name: "ok", Type: "Boolean!"},
						{Name: "ok", Type: "String!"},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "ObjectUsedAsArgument",
			config: SchemaConfig{
				Objects: []ObjectDef{
					{Name: "Widget", Fields: []FieldDef{
						{Name: "name", Type: "String!"},
					}},
					{Name: "Query", Fields: []FieldDef{
						{Name: "find", Type: "Widget!", Args: []InputDef{
							{Name: "w", Type: "Widget!"},
						}},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "InputObjectUsedAsOutput",
			config: SchemaConfig{
				Inputs: []InputObjectDef{
					{Name: "WidgetInput", Fields: []InputDef{
						{Name: "name", Type: "String!"},
					}},
				},
				Objects: []ObjectDef{
					{Name: "Query", Fields: []FieldDef{
						{Name: "thing", Type: "WidgetInput!"},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "DefaultNotInEnum",
			config: SchemaConfig{
				Enums: []EnumDef{
					{Name: "Direction", Values: []string{"UP", "DOWN"}},
				},
				Objects: []ObjectDef{
					{Name: "Query", Fields: []FieldDef{
						{Name: "go", Type: "Boolean!", Args: []InputDef{
							{Name: "dir", Type: "Direction", Default: &badDefault},
						}},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "DuplicateEnumValue",
			config: SchemaConfig{
				Enums: []EnumDef{
					{Name: "Direction", Values: []string{"UP", "UP"}},
				},
				Objects: []ObjectDef{
					{Name: "Query", Fields: []FieldDef{
						{Name: "ok", Type: "Boolean!"},
					}},
				},
			},
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewSchema(test.config)
			if test.wantErr {
				if err == nil {
					t.Error("NewSchema did not return an error")
				}
				return
			}
			if err != nil {
				t.Errorf("NewSchema: %v", err)
			}
		})
	}
}

func TestResolveTypeRef(t *testing.T) {
	schema, err := NewSchema(SchemaConfig{
		Scalars: []string{"DateTime"},
		Objects: []ObjectDef{
			{Name: "Query", Fields: []FieldDef{
				{Name: "ok", Type: "Boolean!"},
			}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		ref  string
		want string
	}{
		{ref: "String", want: "String"},
		{ref: "String!", want: "String!"},
		{ref: "DateTime", want: "DateTime"},
		{ref: "[Query!]!", want: "[Query!]!"},
		{ref: "[[Int]]", want: "[[Int]]"},
	}
	for _, test := range tests {
		got := resolveTypeRef(schema.types, test.ref)
		if got == nil {
			t.Errorf("resolveTypeRef(%q) = nil", test.ref)
			continue
		}
		if got.String() != test.want {
			t.Errorf("resolveTypeRef(%q).String() = %q; want %q", test.ref, got.String(), test.want)
		}
	}
	for _, ref := range []string{"Bogus", "[Unclosed", "Photo!!x"} {
		if got := resolveTypeRef(schema.types, ref); got != nil {
			t.Errorf("resolveTypeRef(%q) = %v; want nil", ref, got)
		}
	}
}
