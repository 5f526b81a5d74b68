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

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "4000" {
		t.Errorf("Port = %q; want %q", cfg.Port, "4000")
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q; want empty", cfg.RedisAddr)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("GITHUB_CLIENT_ID", "id123")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret456")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q; want %q", cfg.Port, "8080")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q; want %q", cfg.RedisAddr, "localhost:6379")
	}
	if cfg.GitHubClientID != "id123" || cfg.GitHubClientSecret != "secret456" {
		t.Errorf("GitHub credentials = (%q, %q); want (id123, secret456)", cfg.GitHubClientID, cfg.GitHubClientSecret)
	}
}
