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

package githubauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/xerrors"
)

// newFakeProvider stands up token and user endpoints that behave like
// GitHub's. The token endpoint checks credentials and the code; the user
// endpoint checks the issued token.
func newFakeProvider(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
			Code         string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if body.ClientID != "id123" || body.ClientSecret != "secret456" {
			json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
			return
		}
		if body.Code != "goodcode" {
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "bad_verification_code",
				"error_description": "The code passed is incorrect or expired.",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok789"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token tok789" {
			http.Error(w, "requires authentication", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"login":      "octocat",
			"name":       "The Octocat",
			"avatar_url": "https://example.com/octocat.png",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client := NewClient("id123", "secret456", &Options{
		HTTPClient: srv.Client(),
		TokenURL:   srv.URL + "/login/oauth/access_token",
		UserURL:    srv.URL + "/user",
	})
	return srv, client
}

func TestAuthorize(t *testing.T) {
	_, client := newFakeProvider(t)
	ident, err := client.Authorize(context.Background(), "goodcode")
	if err != nil {
		t.Fatal(err)
	}
	want := Identity{
		Login:       "octocat",
		Name:        "The Octocat",
		Avatar:      "https://example.com/octocat.png",
		AccessToken: "tok789",
	}
	if ident != want {
		t.Errorf("Authorize = %+v; want %+v", ident, want)
	}
}

func TestAuthorizeBadCode(t *testing.T) {
	_, client := newFakeProvider(t)
	_, err := client.Authorize(context.Background(), "badcode")
	if err == nil {
		t.Fatal("Authorize did not return an error")
	}
	var authErr *Error
	if !xerrors.As(err, &authErr) {
		t.Fatalf("Authorize error = %T; want *Error", err)
	}
	if !strings.Contains(authErr.Message, "incorrect or expired") {
		t.Errorf("error message %q does not carry the provider's description", authErr.Message)
	}
}

func TestAuthorizeBadCredentials(t *testing.T) {
	srv, _ := newFakeProvider(t)
	client := NewClient("id123", "wrong", &Options{
		HTTPClient: srv.Client(),
		TokenURL:   srv.URL + "/login/oauth/access_token",
		UserURL:    srv.URL + "/user",
	})
	_, err := client.Authorize(context.Background(), "goodcode")
	var authErr *Error
	if !xerrors.As(err, &authErr) {
		t.Fatalf("Authorize error = %v; want *Error", err)
	}
	if authErr.Message != "Bad credentials" {
		t.Errorf("error message = %q; want %q", authErr.Message, "Bad credentials")
	}
}

func TestAuthorizeProfileFailure(t *testing.T) {
	// Token endpoint succeeds but the user endpoint is broken. The whole
	// login must fail; nothing partial leaks out.
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok789"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := NewClient("id", "secret", &Options{
		HTTPClient: srv.Client(),
		TokenURL:   srv.URL + "/token",
		UserURL:    srv.URL + "/user",
	})
	ident, err := client.Authorize(context.Background(), "code")
	var authErr *Error
	if !xerrors.As(err, &authErr) {
		t.Fatalf("Authorize error = %v; want *Error", err)
	}
	if ident != (Identity{}) {
		t.Errorf("Authorize returned %+v alongside error", ident)
	}
}

func TestAuthorizeTimeout(t *testing.T) {
	// The handler parks until the client gives up, then returns so the
	// server can shut down cleanly.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect;
		// otherwise r.Context() never fires and Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()
	client := NewClient("id", "secret", &Options{
		HTTPClient: srv.Client(),
		TokenURL:   srv.URL,
		UserURL:    srv.URL,
		Timeout:    50 * time.Millisecond,
	})
	_, err := client.Authorize(context.Background(), "code")
	var authErr *Error
	if !xerrors.As(err, &authErr) {
		t.Fatalf("Authorize error = %v; want *Error", err)
	}
	if !xerrors.Is(authErr.Unwrap(), context.DeadlineExceeded) && !strings.Contains(authErr.Unwrap().Error(), "deadline") {
		t.Errorf("cause = %v; want deadline exceeded", authErr.Unwrap())
	}
}

func TestFetchProfileMissingLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"name": "Nameless"})
	}))
	defer srv.Close()
	client := NewClient("id", "secret", &Options{
		HTTPClient: srv.Client(),
		UserURL:    srv.URL,
	})
	_, err := client.FetchProfile(context.Background(), "tok")
	var authErr *Error
	if !xerrors.As(err, &authErr) {
		t.Fatalf("FetchProfile error = %v; want *Error", err)
	}
}
