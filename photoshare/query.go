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
)

// Query is the entry point for read operations.
type Query struct {
	app *App
}

// TotalPhotos returns the number of stored photos.
func (q *Query) TotalPhotos(ctx context.Context) (int32, error) {
	n, err := q.app.store.TotalPhotos(ctx)
	if err != nil {
		return 0, xerrors.Errorf("totalPhotos: %w", err)
	}
	return int32(n), nil
}

// AllPhotos returns stored photos in insertion order. The optional after
// argument keeps only photos created strictly after the given instant.
func (q *Query) AllPhotos(ctx context.Context, args map[string]graphql.Value) ([]*Photo, error) {
	recs, err := q.app.store.AllPhotos(ctx)
	if err != nil {
		return nil, xerrors.Errorf("allPhotos: %w", err)
	}
	after := args["after"]
	photos := make([]*Photo, 0, len(recs))
	if after.IsNull() {
		for _, rec := range recs {
			photos = append(photos, newPhoto(q.app, rec))
		}
		return photos, nil
	}
	var cutoff datetime.DateTime
	if err := after.Convert(&cutoff); err != nil {
		return nil, xerrors.Errorf("allPhotos: after: %w", err)
	}
	for _, rec := range recs {
		if rec.Created.After(cutoff) {
			photos = append(photos, newPhoto(q.app, rec))
		}
	}
	return photos, nil
}

// TotalUsers returns the number of stored users.
func (q *Query) TotalUsers(ctx context.Context) (int32, error) {
	n, err := q.app.store.TotalUsers(ctx)
	if err != nil {
		return 0, xerrors.Errorf("totalUsers: %w", err)
	}
	return int32(n), nil
}

// AllUsers returns stored users in insertion order.
func (q *Query) AllUsers(ctx context.Context) ([]*User, error) {
	recs, err := q.app.store.AllUsers(ctx)
	if err != nil {
		return nil, xerrors.Errorf("allUsers: %w", err)
	}
	users := make([]*User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, newUser(q.app, rec))
	}
	return users, nil
}
