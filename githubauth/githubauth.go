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

// Package githubauth exchanges a GitHub OAuth authorization code for an
// access token and the profile of the user it belongs to. The exchange is a
// strict two-step sequence: the profile request cannot start until the token
// request has produced a token. Every failure mode — provider-reported
// errors, transport failures, and timeouts — surfaces as an *Error so the
// caller can fail the whole login cleanly.
package githubauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/xerrors"
)

// Default provider endpoints.
const (
	DefaultTokenURL = "https://github.com/login/oauth/access_token"
	DefaultUserURL  = "https://api.github.com/user"
)

const defaultTimeout = 10 * time.Second

// An Error reports a failed identity exchange.
type Error struct {
	// Message is the provider-reported message, if there was one, or a
	// description of the transport failure.
	Message string

	cause error
}

// Error returns a description of the exchange failure.
func (e *Error) Error() string {
	return "github auth: " + e.Message
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Identity is the merged result of a completed exchange.
type Identity struct {
	Login       string
	Name        string
	Avatar      string
	AccessToken string
}

// Client calls the identity provider. The zero value is not usable; use
// NewClient.
type Client struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokenURL     string
	userURL      string
	timeout      time.Duration
}

// Options adjusts a Client beyond its credentials. The zero value uses the
// real GitHub endpoints and a 10 second timeout per authorization.
type Options struct {
	HTTPClient *http.Client
	TokenURL   string
	UserURL    string
	Timeout    time.Duration
}

// NewClient returns a client that authenticates as the given OAuth
// application.
func NewClient(clientID, clientSecret string, opts *Options) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   http.DefaultClient,
		tokenURL:     DefaultTokenURL,
		userURL:      DefaultUserURL,
		timeout:      defaultTimeout,
	}
	if opts == nil {
		return c
	}
	if opts.HTTPClient != nil {
		c.httpClient = opts.HTTPClient
	}
	if opts.TokenURL != "" {
		c.tokenURL = opts.TokenURL
	}
	if opts.UserURL != "" {
		c.userURL = opts.UserURL
	}
	if opts.Timeout > 0 {
		c.timeout = opts.Timeout
	}
	return c
}

// Authorize runs the full exchange: code to token, then token to profile.
// The two calls share one deadline. On success the access token is merged
// into the returned identity.
func (c *Client) Authorize(ctx context.Context, code string) (Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	token, err := c.ExchangeCode(ctx, code)
	if err != nil {
		return Identity{}, err
	}
	ident, err := c.FetchProfile(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	ident.AccessToken = token
	return ident, nil
}

// ExchangeCode posts the authorization code to the token endpoint and
// returns the access token. A response carrying a message instead of a
// token fails with an *Error holding the provider's message.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"code":          code,
	})
	if err != nil {
		return "", xerrors.Errorf("github auth: encode token request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", xerrors.Errorf("github auth: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Message: "token request failed", cause: err}
	}
	defer resp.Body.Close()
	var payload struct {
		AccessToken      string `json:"access_token"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &Error{Message: "decode token response", cause: err}
	}
	if payload.AccessToken == "" {
		msg := payload.Message
		if msg == "" {
			msg = payload.ErrorDescription
		}
		if msg == "" {
			msg = payload.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("provider returned no token (HTTP %d)", resp.StatusCode)
		}
		return "", &Error{Message: msg}
	}
	return payload.AccessToken, nil
}

// FetchProfile fetches the profile of the user the token belongs to. It
// returns an *Error for any non-200 response, transport failure, or a
// profile payload missing the login.
func (c *Client) FetchProfile(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL, nil)
	if err != nil {
		return Identity{}, xerrors.Errorf("github auth: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "token "+token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, &Error{Message: "profile request failed", cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Identity{}, &Error{Message: fmt.Sprintf("profile request returned HTTP %d", resp.StatusCode)}
	}
	var payload struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, &Error{Message: "decode profile response", cause: err}
	}
	if payload.Login == "" {
		return Identity{}, &Error{Message: "profile response missing login"}
	}
	return Identity{
		Login:  payload.Login,
		Name:   payload.Name,
		Avatar: payload.AvatarURL,
	}, nil
}
