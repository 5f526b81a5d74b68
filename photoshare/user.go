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
	"zombiezen.com/go/photoshare-server/graphql"
	"zombiezen.com/go/photoshare-server/photostore"
)

// User presents a stored user record to the engine.
type User struct {
	rec photostore.User
	app *App
}

func newUser(app *App, rec photostore.User) *User {
	return &User{rec: rec, app: app}
}

// GithubLogin returns the user's identifier.
func (u *User) GithubLogin() string {
	return u.rec.Login
}

// Name returns the user's display name, or null if it has none.
func (u *User) Name() graphql.NullString {
	if u.rec.Name == "" {
		return graphql.NullString{}
	}
	return graphql.NullString{S: u.rec.Name, Valid: true}
}

// Avatar returns the user's avatar URL, or null if it has none.
func (u *User) Avatar() graphql.NullString {
	if u.rec.Avatar == "" {
		return graphql.NullString{}
	}
	return graphql.NullString{S: u.rec.Avatar, Valid: true}
}

// PostedPhotos resolves the photos this user owns, in insertion order.
func (u *User) PostedPhotos(ctx context.Context) ([]*Photo, error) {
	recs, err := u.app.store.AllPhotos(ctx)
	if err != nil {
		return nil, xerrors.Errorf("postedPhotos of %s: %w", u.rec.Login, err)
	}
	photos := []*Photo{}
	for _, rec := range recs {
		if rec.OwnerLogin == u.rec.Login {
			photos = append(photos, newPhoto(u.app, rec))
		}
	}
	return photos, nil
}

// InPhotos resolves the photos this user is tagged in, in tag order,
// keeping duplicates.
func (u *User) InPhotos(ctx context.Context) ([]*Photo, error) {
	return u.app.photosTaggedIn(ctx, u.rec.Login)
}
