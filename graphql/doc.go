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

/*
Package graphql provides a GraphQL field-resolution engine. During execution,
the engine transforms a requested field tree into Go method calls and struct
field accesses against the query and mutation objects. Requests arrive with
the wire syntax already dealt with: a Request carries the operation kind and
a FieldTree, not query-language text.

The engine resolves each requested field independently. A field that fails
reports an error annotated with its path in the response; its sibling fields
still resolve, so a response may carry partial data alongside errors. Fields
of the same object resolve concurrently for queries and serially for
mutations.

# Methods

Field methods must have the following signature (with square brackets
indicating optional elements):

	func (foo *Foo) Bar([ctx context.Context,] [args map[string]graphql.Value,] [sel *graphql.SelectionSet]) (ResultType[, error])

The ctx parameter will have a Context deriving from the one passed to Execute.
The args parameter will be a map filled with the arguments passed to the
field, with declared defaults applied for omitted arguments. The sel
parameter is only passed to fields that return an object or list of objects
type and permits the method to peek into what fields will be evaluated on its
return value.

# Scalars

Go values will be converted to scalars in the result by trying the following
in order:

 1. Call a method named IsGraphQLNull if present. If it returns true, then
    convert to null.

 2. Use the encoding.TextMarshaler interface if present.

 3. Examine the Go type and GraphQL types and attempt coercion.

Custom scalars are coerced through the same interfaces in both directions,
so a type like a timestamp normalizes identically whether it arrives as an
argument or leaves as a result.
*/
package graphql
