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

package photoshare

import (
	"context"

	"golang.org/x/xerrors"
	"zombiezen.com/go/photoshare-server/datetime"
	"zombiezen.com/go/photoshare-server/graphql"
	"zombiezen.com/go/photoshare-server/photostore"
)

// Mutation is the entry point for write operations.
type Mutation struct {
	app *App
}

// PostPhotoInput carries the caller-supplied fields of a new photo.
type PostPhotoInput struct {
	Name        string
	Category    Category
	Description graphql.NullString
}

// PostPhoto creates a photo from the input, stamping it with a fresh
// identifier and the current time.
func (m *Mutation) PostPhoto(ctx context.Context, args map[string]graphql.Value) (*Photo, error) {
	var input PostPhotoInput
	if err := args["input"].Convert(&input); err != nil {
		return nil, xerrors.Errorf("postPhoto: %w", err)
	}
	rec, err := m.app.store.AddPhoto(ctx, photostore.Photo{
		Name:        input.Name,
		Description: input.Description.S,
		Category:    string(input.Category),
		Created:     datetime.Now(),
	})
	if err != nil {
		return nil, xerrors.Errorf("postPhoto: %w", err)
	}
	m.app.log.Info("photo posted", "id", rec.ID, "category", rec.Category)
	return newPhoto(m.app, rec), nil
}

// AuthPayload is the result of a successful login.
type AuthPayload struct {
	Token string
	User  *User
}

// GithubAuth exchanges a GitHub authorization code for an access token and
// profile, then creates or fully replaces the matching user record. A failed
// exchange leaves the store untouched.
func (m *Mutation) GithubAuth(ctx context.Context, args map[string]graphql.Value) (*AuthPayload, error) {
	var code string
	if err := args["code"].Convert(&code); err != nil {
		return nil, xerrors.Errorf("githubAuth: %w", err)
	}
	ident, err := m.app.auth.Authorize(ctx, code)
	if err != nil {
		return nil, xerrors.Errorf("githubAuth: %w", err)
	}
	rec, err := m.app.store.UpsertUser(ctx, photostore.User{
		Login:  ident.Login,
		Name:   ident.Name,
		Avatar: ident.Avatar,
		Token:  ident.AccessToken,
	})
	if err != nil {
		return nil, xerrors.Errorf("githubAuth: %w", err)
	}
	m.app.log.Info("user signed in", "login", rec.Login)
	return &AuthPayload{
		Token: ident.AccessToken,
		User:  newUser(m.app, rec),
	}, nil
}
