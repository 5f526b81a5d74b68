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

// Package photostore defines the entity store: the contract for fetching,
// counting, and writing user and photo records, with an in-memory
// implementation for development and a Redis-backed implementation for
// durable deployments. Nothing outside this package owns the underlying
// collections.
package photostore

import (
	"context"

	"golang.org/x/xerrors"
	"zombiezen.com/go/photoshare-server/datetime"
)

// User is a stored user record, keyed by GitHub login. Token is the access
// token captured at the most recent login; it never appears in responses.
type User struct {
	Login  string `json:"githubLogin"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Photo is a stored photo record. The URL is derived from ID at resolution
// time and deliberately absent here.
type Photo struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category"`
	OwnerLogin  string            `json:"githubLogin"`
	Created     datetime.DateTime `json:"created"`
}

// ErrNotFound is wrapped by errors returned when a looked-up entity does not
// exist. It is a distinct condition from the store being unreachable.
var ErrNotFound = xerrors.New("entity not found")

// ErrUnavailable is wrapped by errors returned when the backing store cannot
// be reached. Callers must treat it as a failure of the whole operation, not
// as an empty result.
var ErrUnavailable = xerrors.New("store unavailable")

// Store is the entity store contract. Counts may be approximate; writes are
// last-write-wins with whatever coordination the backing store natively
// provides.
type Store interface {
	// TotalUsers counts stored users.
	TotalUsers(ctx context.Context) (int, error)
	// AllUsers lists users in insertion order.
	AllUsers(ctx context.Context) ([]User, error)
	// FindUser returns the user with the given login, or an error wrapping
	// ErrNotFound.
	FindUser(ctx context.Context, login string) (User, error)
	// UpsertUser fully replaces the record matching u.Login, inserting if no
	// record matches, and returns the stored record.
	UpsertUser(ctx context.Context, u User) (User, error)

	// TotalPhotos counts stored photos.
	TotalPhotos(ctx context.Context) (int, error)
	// AllPhotos lists photos in insertion order.
	AllPhotos(ctx context.Context) ([]Photo, error)
	// FindPhoto returns the photo with the given id, or an error wrapping
	// ErrNotFound.
	FindPhoto(ctx context.Context, id string) (Photo, error)
	// AddPhoto assigns p a fresh identifier, stores it without replacing any
	// existing record, and returns the stored record.
	AddPhoto(ctx context.Context, p Photo) (Photo, error)
}
