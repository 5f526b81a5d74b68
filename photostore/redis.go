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
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/xerrors"
)

// Key layout: one hash per collection, keyed by the entity key, plus a list
// per collection recording insertion order. No cross-collection integrity
// is enforced here; references are checked at resolution time.
const (
	keyUsers      = "users"
	keyUserOrder  = "users:order"
	keyPhotos     = "photos"
	keyPhotoOrder = "photos:order"
)

// RedisStore is a durable store over two Redis hashes. Counts use HLEN and
// are only as exact as Redis makes them under concurrent writers.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a store backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifies the backing connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return xerrors.Errorf("redis %s: %v: %w", op, err, ErrUnavailable)
}

// TotalUsers counts stored users.
func (s *RedisStore) TotalUsers(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, keyUsers).Result()
	if err != nil {
		return 0, unavailable("count users", err)
	}
	return int(n), nil
}

// AllUsers lists users in insertion order.
func (s *RedisStore) AllUsers(ctx context.Context) ([]User, error) {
	logins, err := s.client.LRange(ctx, keyUserOrder, 0, -1).Result()
	if err != nil {
		return nil, unavailable("list users", err)
	}
	users := make([]User, 0, len(logins))
	for _, login := range logins {
		u, err := s.FindUser(ctx, login)
		if xerrors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// FindUser fetches one user record by login.
func (s *RedisStore) FindUser(ctx context.Context, login string) (User, error) {
	data, err := s.client.HGet(ctx, keyUsers, login).Result()
	if err == redis.Nil {
		return User{}, xerrors.Errorf("find user %q: %w", login, ErrNotFound)
	}
	if err != nil {
		return User{}, unavailable("find user", err)
	}
	var u User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return User{}, xerrors.Errorf("find user %q: decode: %w", login, err)
	}
	return u, nil
}

// UpsertUser fully replaces the record stored under u.Login.
func (s *RedisStore) UpsertUser(ctx context.Context, u User) (User, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return User{}, xerrors.Errorf("upsert user %q: encode: %w", u.Login, err)
	}
	exists, err := s.client.HExists(ctx, keyUsers, u.Login).Result()
	if err != nil {
		return User{}, unavailable("upsert user", err)
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, keyUsers, u.Login, data)
	if !exists {
		pipe.RPush(ctx, keyUserOrder, u.Login)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return User{}, unavailable("upsert user", err)
	}
	return u, nil
}

// TotalPhotos counts stored photos.
func (s *RedisStore) TotalPhotos(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, keyPhotos).Result()
	if err != nil {
		return 0, unavailable("count photos", err)
	}
	return int(n), nil
}

// AllPhotos lists photos in insertion order.
func (s *RedisStore) AllPhotos(ctx context.Context) ([]Photo, error) {
	ids, err := s.client.LRange(ctx, keyPhotoOrder, 0, -1).Result()
	if err != nil {
		return nil, unavailable("list photos", err)
	}
	photos := make([]Photo, 0, len(ids))
	for _, id := range ids {
		p, err := s.FindPhoto(ctx, id)
		if xerrors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, nil
}

// FindPhoto fetches one photo record by id.
func (s *RedisStore) FindPhoto(ctx context.Context, id string) (Photo, error) {
	data, err := s.client.HGet(ctx, keyPhotos, id).Result()
	if err == redis.Nil {
		return Photo{}, xerrors.Errorf("find photo %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Photo{}, unavailable("find photo", err)
	}
	var p Photo
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Photo{}, xerrors.Errorf("find photo %q: decode: %w", id, err)
	}
	return p, nil
}

// AddPhoto stores p under a fresh identifier.
func (s *RedisStore) AddPhoto(ctx context.Context, p Photo) (Photo, error) {
	p.ID = uuid.NewString()
	data, err := json.Marshal(p)
	if err != nil {
		return Photo{}, xerrors.Errorf("add photo: encode: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, keyPhotos, p.ID, data)
	pipe.RPush(ctx, keyPhotoOrder, p.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return Photo{}, unavailable("add photo", err)
	}
	return p, nil
}
