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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// upperString converts from text by uppercasing, to exercise the
// encoding.TextUnmarshaler path.
type upperString string

func (u *upperString) UnmarshalText(text []byte) error {
	*u = upperString(strings.ToUpper(string(text)))
	return nil
}

func TestConvert(t *testing.T) {
	defaultCount := ScalarInput("1")
	schema, err := NewSchema(SchemaConfig{
		Enums: []EnumDef{
			{Name: "Direction", Values: []string{"UP", "DOWN"}},
		},
		Inputs: []InputObjectDef{
			{Name: "MoveInput", Fields: []InputDef{
				{Name: "direction", Type: "Direction!"},
				{Name: "count", Type: "Int", Default: &defaultCount},
				{Name: "label", Type: "String"},
			}},
		},
		Objects: []ObjectDef{
			{Name: "Query", Fields: []FieldDef{
				{Name: "ok", Type: "Boolean!"},
			}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	coerce := func(t *testing.T, ref string, input Input) Value {
		t.Helper()
		typ := resolveTypeRef(schema.types, ref)
		if typ == nil {
			t.Fatalf("unknown type %s", ref)
		}
		v, errs := coerceInput(typ, input)
		if len(errs) > 0 {
			t.Fatal(errs[0])
		}
		return v
	}

	t.Run("String", func(t *testing.T) {
		var got string
		if err := coerce(t, "String!", ScalarInput("hi")).Convert(&got); err != nil {
			t.Fatal(err)
		}
		if got != "hi" {
			t.Errorf("got %q; want %q", got, "hi")
		}
	})
	t.Run("Int", func(t *testing.T) {
		var got int32
		if err := coerce(t, "Int!", ScalarInput("-17")).Convert(&got); err != nil {
			t.Fatal(err)
		}
		if got != -17 {
			t.Errorf("got %d; want -17", got)
		}
	})
	t.Run("TextUnmarshaler", func(t *testing.T) {
		var got upperString
		if err := coerce(t, "String!", ScalarInput("hi")).Convert(&got); err != nil {
			t.Fatal(err)
		}
		if got != "HI" {
			t.Errorf("got %q; want %q", got, "HI")
		}
	})
	t.Run("NullToZeroValue", func(t *testing.T) {
		got := NullString{S: "before", Valid: true}
		if err := coerce(t, "String", Input{}).Convert(&got); err != nil {
			t.Fatal(err)
		}
		if got.Valid {
			t.Errorf("got %+v; want null", got)
		}
	})
	t.Run("List", func(t *testing.T) {
		var got []int32
		in := ListInput([]Input{ScalarInput("1"), ScalarInput("2"), ScalarInput("3")})
		if err := coerce(t, "[Int!]!", in).Convert(&got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int32{1, 2, 3}, got); diff != "" {
			t.Errorf("list (-want +got):\n%s", diff)
		}
	})
	t.Run("InputObjectToStruct", func(t *testing.T) {
		type moveInput struct {
			Direction string
			Count     int32
			Label     NullString
		}
		in := InputObject(map[string]Input{
			"direction": ScalarInput("UP"),
			"label":     ScalarInput("jump"),
		})
		var got moveInput
		if err := coerce(t, "MoveInput!", in).Convert(&got); err != nil {
			t.Fatal(err)
		}
		want := moveInput{
			Direction: "UP",
			Count:     1,
			Label:     NullString{S: "jump", Valid: true},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("struct (-want +got):\n%s", diff)
		}
	})
	t.Run("EnumRequiresString", func(t *testing.T) {
		var got int32
		if err := coerce(t, "Direction!", ScalarInput("UP")).Convert(&got); err == nil {
			t.Error("converting enum to int did not return an error")
		}
	})
	t.Run("NotAPointer", func(t *testing.T) {
		var got string
		if err := coerce(t, "String!", ScalarInput("hi")).Convert(got); err == nil {
			t.Error("converting to non-pointer did not return an error")
		}
	})
}
