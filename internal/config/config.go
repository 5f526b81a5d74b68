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

// Package config reads server settings from the environment.
package config

import (
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
)

// Config holds everything the server binary needs to start.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string
	// RedisAddr is the host:port of the Redis backend. Empty selects the
	// in-memory store with fixture data.
	RedisAddr string
	// GitHubClientID and GitHubClientSecret identify the OAuth application
	// used for logins.
	GitHubClientID     string
	GitHubClientSecret string
}

// Load reads settings from the environment. Missing settings take their
// defaults; there is no configuration file.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("port", "4000")
	v.SetDefault("redis_addr", "")
	v.SetDefault("github_client_id", "")
	v.SetDefault("github_client_secret", "")
	for _, key := range []string{"port", "redis_addr", "github_client_id", "github_client_secret"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, xerrors.Errorf("load config: %w", err)
		}
	}
	return Config{
		Port:               v.GetString("port"),
		RedisAddr:          v.GetString("redis_addr"),
		GitHubClientID:     v.GetString("github_client_id"),
		GitHubClientSecret: v.GetString("github_client_secret"),
	}, nil
}
