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

// Package photoshare implements the photo-sharing GraphQL API: users,
// photos, tag relations, and GitHub login. It binds the domain to the
// engine in package graphql; persistence and identity exchange are
// delegated to the photostore and githubauth packages.
package photoshare

import (
	"log/slog"

	"golang.org/x/xerrors"
	"zombiezen.com/go/photoshare-server/githubauth"
	"zombiezen.com/go/photoshare-server/graphql"
	"zombiezen.com/go/photoshare-server/photostore"
)

// App bundles the collaborators every resolver needs.
type App struct {
	store photostore.Store
	tags  *TagIndex
	auth  *githubauth.Client
	log   *slog.Logger
}

// NewApp returns an app over the given store, tag index, and identity
// client. A nil logger falls back to slog.Default.
func NewApp(store photostore.Store, tags *TagIndex, auth *githubauth.Client, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		store: store,
		tags:  tags,
		auth:  auth,
		log:   log,
	}
}

// NewServer binds the app to the schema, producing an executable GraphQL
// server.
func (app *App) NewServer() (*graphql.Server, error) {
	schema, err := NewSchema()
	if err != nil {
		return nil, xerrors.Errorf("photoshare: %w", err)
	}
	srv, err := graphql.NewServer(schema, &Query{app: app}, &Mutation{app: app})
	if err != nil {
		return nil, xerrors.Errorf("photoshare: %w", err)
	}
	return srv, nil
}

// NewSchema declares the photo-sharing type system.
func NewSchema() (*graphql.Schema, error) {
	defaultCategory := graphql.ScalarInput(string(CategoryPortrait))
	return graphql.NewSchema(graphql.SchemaConfig{
		Scalars: []string{"DateTime"},
		Enums: []graphql.EnumDef{
			{Name: "PhotoCategory", Values: categoryNames()},
		},
		Objects: []graphql.ObjectDef{
			{Name: "User", Fields: []graphql.FieldDef{
				{Name: "githubLogin", Type: "ID!"},
				{Name: "name", Type: "String"},
				{Name: "avatar", Type: "String"},
				{Name: "postedPhotos", Type: "[Photo!]!"},
				{Name: "inPhotos", Type: "[Photo!]!"},
			}},
			{Name: "Photo", Fields: []graphql.FieldDef{
				{Name: "id", Type: "ID!"},
				{Name: "url", Type: "String!"},
				{Name: "name", Type: "String!"},
				{Name: "description", Type: "String"},
				{Name: "category", Type: "PhotoCategory!"},
				{Name: "created", Type: "DateTime!"},
				{Name: "postedBy", Type: "User!"},
				{Name: "taggedUsers", Type: "[User!]!"},
			}},
			{Name: "AuthPayload", Fields: []graphql.FieldDef{
				{Name: "token", Type: "String!"},
				{Name: "user", Type: "User!"},
			}},
			{Name: "Query", Fields: []graphql.FieldDef{
				{Name: "totalPhotos", Type: "Int!"},
				{Name: "allPhotos", Type: "[Photo!]!", Args: []graphql.InputDef{
					{Name: "after", Type: "DateTime"},
				}},
				{Name: "totalUsers", Type: "Int!"},
				{Name: "allUsers", Type: "[User!]!"},
			}},
			{Name: "Mutation", Fields: []graphql.FieldDef{
				{Name: "postPhoto", Type: "Photo!", Args: []graphql.InputDef{
					{Name: "input", Type: "PostPhotoInput!"},
				}},
				{Name: "githubAuth", Type: "AuthPayload!", Args: []graphql.InputDef{
					{Name: "code", Type: "String!"},
				}},
			}},
		},
		Inputs: []graphql.InputObjectDef{
			{Name: "PostPhotoInput", Fields: []graphql.InputDef{
				{Name: "name", Type: "String!"},
				{Name: "category", Type: "PhotoCategory", Default: &defaultCategory},
				{Name: "description", Type: "String"},
			}},
		},
	})
}
