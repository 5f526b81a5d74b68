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

// The photoshare command runs the photo-sharing GraphQL server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opencensus.io/plugin/ochttp"
	"zombiezen.com/go/photoshare-server/githubauth"
	"zombiezen.com/go/photoshare-server/graphqlhttp"
	"zombiezen.com/go/photoshare-server/internal/config"
	"zombiezen.com/go/photoshare-server/internal/seed"
	"zombiezen.com/go/photoshare-server/photoshare"
	"zombiezen.com/go/photoshare-server/photostore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)
	if err := run(context.Background(), log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	auth := githubauth.NewClient(cfg.GitHubClientID, cfg.GitHubClientSecret, nil)
	app := photoshare.NewApp(store, photoshare.NewTagIndex(seed.Tags()), auth, log)
	srv, err := app.NewServer()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", &ochttp.Handler{Handler: graphqlhttp.NewHandler(srv, nil)})
	mux.Handle("/metrics", promhttp.Handler())
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("listening", "port", cfg.Port)
	return httpServer.ListenAndServe()
}

// openStore connects to Redis when an address is configured and falls back
// to an in-memory store seeded with fixture data otherwise.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (photostore.Store, error) {
	if cfg.RedisAddr == "" {
		log.Info("using in-memory store with fixture data")
		return photostore.NewMemStore(seed.Users(), seed.Photos()), nil
	}
	store := photostore.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}
	log.Info("using redis store", "addr", cfg.RedisAddr)
	return store, nil
}
