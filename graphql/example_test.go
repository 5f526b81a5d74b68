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

package graphql_test

import (
	"context"
	"encoding/json"
	"fmt"

	"zombiezen.com/go/photoshare-server/graphql"
)

// Query is the GraphQL object read from the server.
type Query struct {
	GenericGreeting string
}

// Greet is a field that takes arguments.
func (q *Query) Greet(args map[string]graphql.Value) (string, error) {
	subject := args["subject"].Scalar()
	return fmt.Sprintf("Hello, %s!", subject), nil
}

func Example() {
	// Declare the schema's types.
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Objects: []graphql.ObjectDef{
			{Name: "Query", Fields: []graphql.FieldDef{
				{Name: "genericGreeting", Type: "String!"},
				{Name: "greet", Type: "String!", Args: []graphql.InputDef{
					{Name: "subject", Type: "String!"},
				}},
			}},
		},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// Bind the schema to a Go value and execute a request.
	queryObject := &Query{GenericGreeting: "Hiya!"}
	server, err := graphql.NewServer(schema, queryObject, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	var request graphql.Request
	err = json.Unmarshal([]byte(`{
		"fields": {
			"genericGreeting": true,
			"greet": {"args": {"subject": "GraphQL"}}
		}
	}`), &request)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	response := server.Execute(context.Background(), request)
	responseJSON, err := json.Marshal(response)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(string(responseJSON))
	// Output:
	// {"data":{"genericGreeting":"Hiya!","greet":"Hello, GraphQL!"}}
}
