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
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/xerrors"
)

func newTestSchema(t *testing.T) *Schema {
	t.Helper()
	defaultSubject := ScalarInput("World")
	schema, err := NewSchema(SchemaConfig{
		Enums: []EnumDef{
			{Name: "Mood", Values: []string{"HAPPY", "GRUMPY"}},
		},
		Objects: []ObjectDef{
			{Name: "Query", Fields: []FieldDef{
				{Name: "magic", Type: "Int!"},
				{Name: "url", Type: "String!"},
				{Name: "greeting", Type: "String!", Args: []InputDef{
					{Name: "subject", Type: "String", Default: &defaultSubject},
				}},
				{Name: "mood", Type: "Mood!"},
				{Name: "widget", Type: "Widget!"},
				{Name: "widgets", Type: "[Widget!]!"},
				{Name: "broken", Type: "String!"},
				{Name: "block", Type: "String!"},
				{Name: "unblock", Type: "String!"},
			}},
			{Name: "Widget", Fields: []FieldDef{
				{Name: "id", Type: "ID!"},
				{Name: "name", Type: "String!"},
			}},
			{Name: "Mutation", Fields: []FieldDef{
				{Name: "first", Type: "String!"},
				{Name: "second", Type: "String!"},
			}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return schema
}

type testWidget struct {
	name string
	fail bool
}

func (w *testWidget) ID() string {
	return "w-" + w.name
}

func (w *testWidget) Name() (string, error) {
	if w.fail {
		return "", xerrors.New("gremlins")
	}
	return w.name, nil
}

type testQuery struct {
	Magic int32
	URL   string

	releaseOnce sync.Once
	release     chan struct{}
}

func (q *testQuery) Greeting(args map[string]Value) string {
	return "Hello, " + args["subject"].Scalar() + "!"
}

func (q *testQuery) Mood() string {
	return "HAPPY"
}

func (q *testQuery) Widget() *testWidget {
	return &testWidget{name: "sprocket"}
}

func (q *testQuery) Widgets() []*testWidget {
	return []*testWidget{
		{name: "sprocket"},
		{fail: true},
	}
}

func (q *testQuery) Broken() (string, error) {
	return "", xerrors.New("out of cheese")
}

// Block and Unblock prove that sibling query fields resolve concurrently:
// Block cannot finish until Unblock has run.
func (q *testQuery) Block(ctx context.Context) (string, error) {
	select {
	case <-q.release:
		return "released", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (q *testQuery) Unblock() string {
	q.releaseOnce.Do(func() { close(q.release) })
	return "ok"
}

func newTestServer(t *testing.T) (*Server, *testMutation) {
	t.Helper()
	mut := new(testMutation)
	srv, err := NewServer(newTestSchema(t), &testQuery{
		Magic:   42,
		URL:     "https://example.com/",
		release: make(chan struct{}),
	}, mut)
	if err != nil {
		t.Fatal(err)
	}
	return srv, mut
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name       string
		request    string
		want       map[string]interface{}
		wantErrors []*ResponseError
	}{
		{
			name:    "StructField",
			request: `{"fields": {"magic": true}}`,
			want:    map[string]interface{}{"magic": "42"},
		},
		{
			// Initialism names don't match a first-letter upcase of the
			// GraphQL field name and must still resolve.
			name:    "InitialismStructField",
			request: `{"fields": {"url": true}}`,
			want:    map[string]interface{}{"url": "https://example.com/"},
		},
		{
			name:    "InitialismMethod",
			request: `{"fields": {"widget": {"fields": {"id": true, "name": true}}}}`,
			want: map[string]interface{}{
				"widget": map[string]interface{}{"id": "w-sprocket", "name": "sprocket"},
			},
		},
		{
			name:    "ArgumentDefault",
			request: `{"fields": {"greeting": {}}}`,
			want:    map[string]interface{}{"greeting": "Hello, World!"},
		},
		{
			name:    "ArgumentGiven",
			request: `{"fields": {"greeting": {"args": {"subject": "GraphQL"}}}}`,
			want:    map[string]interface{}{"greeting": "Hello, GraphQL!"},
		},
		{
			name:    "Enum",
			request: `{"fields": {"mood": true}}`,
			want:    map[string]interface{}{"mood": "HAPPY"},
		},
		{
			name:    "Object",
			request: `{"fields": {"widget": {"fields": {"name": true}}}}`,
			want: map[string]interface{}{
				"widget": map[string]interface{}{"name": "sprocket"},
			},
		},
		{
			name:    "UnknownField",
			request: `{"fields": {"bogus": true}}`,
			wantErrors: []*ResponseError{
				{
					Message: "no such field bogus on type Query",
					Path:    []PathSegment{{Field: "bogus"}},
				},
			},
		},
		{
			name:    "ObjectWithoutSubfields",
			request: `{"fields": {"widget": true}}`,
			wantErrors: []*ResponseError{
				{
					Message: "field widget of type Widget! must have a selection of subfields",
					Path:    []PathSegment{{Field: "widget"}},
				},
			},
		},
		{
			name:    "ScalarWithSubfields",
			request: `{"fields": {"magic": {"fields": {"nope": true}}}}`,
			wantErrors: []*ResponseError{
				{
					Message: "field magic of type Int! does not permit subfields",
					Path:    []PathSegment{{Field: "magic"}},
				},
			},
		},
		{
			name:    "UnknownArgument",
			request: `{"fields": {"greeting": {"args": {"flavor": "salty"}}}}`,
			wantErrors: []*ResponseError{
				{
					Message: "field greeting: unknown argument flavor",
					Path:    []PathSegment{{Field: "greeting"}},
				},
			},
		},
		{
			name:    "FieldError",
			request: `{"fields": {"broken": true, "magic": true}}`,
			want:    map[string]interface{}{"magic": "42", "broken": nil},
			wantErrors: []*ResponseError{
				{
					Message: "field broken: server error: out of cheese",
					Path:    []PathSegment{{Field: "broken"}},
				},
			},
		},
		{
			name:    "ListElementError",
			request: `{"fields": {"widgets": {"fields": {"name": true}}}}`,
			want:    map[string]interface{}{"widgets": nil},
			wantErrors: []*ResponseError{
				{
					Message: "field widgets: list[1]: field name: server error: gremlins",
					Path: []PathSegment{
						{Field: "widgets"},
						{ListIndex: 1},
						{Field: "name"},
					},
				},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			var req Request
			if err := json.Unmarshal([]byte(test.request), &req); err != nil {
				t.Fatal(err)
			}
			resp := srv.Execute(context.Background(), req)
			if diff := cmp.Diff(test.wantErrors, resp.Errors, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("errors (-want +got):\n%s", diff)
			}
			if test.want != nil {
				got, _ := resp.Data.GoValue().(map[string]interface{})
				if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("data (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestExecuteConcurrentQueryFields(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resp := srv.Execute(ctx, Request{
		Fields: FieldTree{
			"block":   nil,
			"unblock": nil,
		},
	})
	if len(resp.Errors) > 0 {
		t.Fatal(resp.Errors)
	}
	got := resp.Data.GoValue()
	want := map[string]interface{}{
		"block":   "released",
		"unblock": "ok",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("data (-want +got):\n%s", diff)
	}
}

type testMutation struct {
	mu    sync.Mutex
	calls []string
}

func (m *testMutation) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *testMutation) First() string {
	m.record("first")
	return "1"
}

func (m *testMutation) Second() string {
	m.record("second")
	return "2"
}

func TestExecuteMutationSerial(t *testing.T) {
	srv, mut := newTestServer(t)
	resp := srv.Execute(context.Background(), Request{
		Operation: MutationOperation,
		Fields: FieldTree{
			"first":  nil,
			"second": nil,
		},
	})
	if len(resp.Errors) > 0 {
		t.Fatal(resp.Errors)
	}
	want := []string{"first", "second"}
	if diff := cmp.Diff(want, mut.calls); diff != "" {
		t.Errorf("mutation call order (-want +got):\n%s", diff)
	}
}

func TestResponseMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{
			name: "Empty",
			resp: Response{},
			want: `{}`,
		},
		{
			name: "DataOnly",
			resp: Response{
				Data: Value{typ: stringType, val: "hi"},
			},
			want: `{"data":"hi"}`,
		},
		{
			name: "ErrorsBeforeData",
			resp: Response{
				Data: Value{typ: stringType, val: "hi"},
				Errors: []*ResponseError{
					{Message: "boom", Path: []PathSegment{{Field: "x"}, {ListIndex: 3}}},
				},
			},
			want: `{"errors":[{"message":"boom","path":["x",3]}],"data":"hi"}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := json.Marshal(test.resp)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != test.want {
				t.Errorf("json.Marshal(resp) = %s; want %s", got, test.want)
			}
		})
	}
}

func TestOperationTypeUnmarshalText(t *testing.T) {
	tests := []struct {
		text    string
		want    OperationType
		wantErr bool
	}{
		{text: "", want: QueryOperation},
		{text: "query", want: QueryOperation},
		{text: "mutation", want: MutationOperation},
		{text: "subscription", wantErr: true},
	}
	for _, test := range tests {
		var got OperationType
		err := got.UnmarshalText([]byte(test.text))
		if test.wantErr {
			if err == nil {
				t.Errorf("UnmarshalText(%q) = %v; want error", test.text, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalText(%q): %v", test.text, err)
			continue
		}
		if got != test.want {
			t.Errorf("UnmarshalText(%q) = %v; want %v", test.text, got, test.want)
		}
	}
}
