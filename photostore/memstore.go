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

package photostore

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/xerrors"
)

// MemStore is an in-memory store over ordered slices with linear scans.
// Photo identifiers come from a monotonic counter scoped to the process.
// It is meant for a single process; the mutex only guards against the
// concurrent field reads of query resolution.
type MemStore struct {
	mu     sync.Mutex
	users  []User
	photos []Photo
	nextID int
}

// NewMemStore returns a store seeded with the given records. The photo ID
// counter starts past the largest numeric seed ID.
func NewMemStore(users []User, photos []Photo) *MemStore {
	s := &MemStore{
		users:  append([]User(nil), users...),
		photos: append([]Photo(nil), photos...),
		nextID: 1,
	}
	for _, p := range photos {
		if n, err := strconv.Atoi(p.ID); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	return s
}

// TotalUsers counts stored users.
func (s *MemStore) TotalUsers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

// AllUsers lists users in insertion order.
func (s *MemStore) AllUsers(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]User(nil), s.users...), nil
}

// FindUser scans for the user with the given login.
func (s *MemStore) FindUser(ctx context.Context, login string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Login == login {
			return u, nil
		}
	}
	return User{}, xerrors.Errorf("find user %q: %w", login, ErrNotFound)
}

// UpsertUser replaces the record matching u.Login or appends a new one.
func (s *MemStore) UpsertUser(ctx context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Login == u.Login {
			s.users[i] = u
			return u, nil
		}
	}
	s.users = append(s.users, u)
	return u, nil
}

// TotalPhotos counts stored photos.
func (s *MemStore) TotalPhotos(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.photos), nil
}

// AllPhotos lists photos in insertion order.
func (s *MemStore) AllPhotos(ctx context.Context) ([]Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Photo(nil), s.photos...), nil
}

// FindPhoto scans for the photo with the given id.
func (s *MemStore) FindPhoto(ctx context.Context, id string) (Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.photos {
		if p.ID == id {
			return p, nil
		}
	}
	return Photo{}, xerrors.Errorf("find photo %q: %w", id, ErrNotFound)
}

// AddPhoto assigns the next counter value as the photo's ID and appends it.
func (s *MemStore) AddPhoto(ctx context.Context, p Photo) (Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = strconv.Itoa(s.nextID)
	s.nextID++
	s.photos = append(s.photos, p)
	return p, nil
}
