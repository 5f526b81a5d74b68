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
	"zombiezen.com/go/photoshare-server/photostore"
)

// A Tag links a user to a photo. The same pair may appear more than once;
// duplicates are preserved everywhere tags surface.
type Tag struct {
	PhotoID   string
	UserLogin string
}

// TagIndex answers tag lookups in both directions while preserving the
// order and multiplicity of the underlying tag list.
type TagIndex struct {
	tags []Tag
}

// NewTagIndex returns an index over a copy of the given tags.
func NewTagIndex(tags []Tag) *TagIndex {
	return &TagIndex{tags: append([]Tag(nil), tags...)}
}

// Add appends a tag to the index.
func (idx *TagIndex) Add(t Tag) {
	idx.tags = append(idx.tags, t)
}

// UserLogins returns the logins tagged in the given photo, in tag order.
func (idx *TagIndex) UserLogins(photoID string) []string {
	logins := []string{}
	for _, t := range idx.tags {
		if t.PhotoID == photoID {
			logins = append(logins, t.UserLogin)
		}
	}
	return logins
}

// PhotoIDs returns the photos the given login is tagged in, in tag order.
func (idx *TagIndex) PhotoIDs(login string) []string {
	ids := []string{}
	for _, t := range idx.tags {
		if t.UserLogin == login {
			ids = append(ids, t.PhotoID)
		}
	}
	return ids
}

// taggedUsers maps a photo's tags to user objects. Tags naming a missing
// user are skipped; a list never fails because one referent is gone.
func (app *App) taggedUsers(ctx context.Context, photoID string) ([]*User, error) {
	users := []*User{}
	for _, login := range app.tags.UserLogins(photoID) {
		rec, err := app.store.FindUser(ctx, login)
		if xerrors.Is(err, photostore.ErrNotFound) {
			app.log.Warn("tag names missing user", "photo", photoID, "login", login)
			continue
		}
		if err != nil {
			return nil, xerrors.Errorf("taggedUsers of photo %s: %w", photoID, err)
		}
		users = append(users, newUser(app, rec))
	}
	return users, nil
}

// photosTaggedIn maps a user's tags to photo objects, skipping tags that
// name a missing photo.
func (app *App) photosTaggedIn(ctx context.Context, login string) ([]*Photo, error) {
	photos := []*Photo{}
	for _, id := range app.tags.PhotoIDs(login) {
		rec, err := app.store.FindPhoto(ctx, id)
		if xerrors.Is(err, photostore.ErrNotFound) {
			app.log.Warn("tag names missing photo", "login", login, "photo", id)
			continue
		}
		if err != nil {
			return nil, xerrors.Errorf("inPhotos of %s: %w", login, err)
		}
		photos = append(photos, newPhoto(app, rec))
	}
	return photos, nil
}
