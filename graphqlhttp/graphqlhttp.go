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

// Package graphqlhttp serves GraphQL requests over HTTP. Requests are JSON
// documents naming an operation and a field tree; responses are the JSON
// form of graphql.Response. A response that carries field errors alongside
// data is still HTTP 200: partial failure is part of the protocol, not a
// transport error.
package graphqlhttp

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"
	"zombiezen.com/go/photoshare-server/graphql"
)

// Handler serves GraphQL HTTP requests by executing them on its server.
type Handler struct {
	server   *graphql.Server
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewHandler returns a new handler that sends requests to the given server.
// Metrics are registered on reg; a nil reg skips instrumentation setup and
// uses the default registerer.
func NewHandler(server *graphql.Server, reg prometheus.Registerer) *Handler {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &Handler{
		server: server,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphql_requests_total",
			Help: "Count of GraphQL HTTP requests.",
		}, []string{"operation", "status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphql_request_duration_seconds",
			Help:    "Time spent executing GraphQL requests.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(h.requests, h.latency)
	return h
}

// ServeHTTP executes a GraphQL request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	gqlRequest, err := Parse(r)
	if err != nil {
		code := StatusCode(err)
		if code == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", "POST")
		}
		h.requests.WithLabelValues("invalid", strconv.Itoa(code)).Inc()
		http.Error(w, err.Error(), code)
		return
	}
	gqlResponse := h.server.Execute(r.Context(), gqlRequest)
	h.latency.Observe(time.Since(start).Seconds())
	opType := gqlRequest.Operation
	if opType == 0 {
		opType = graphql.QueryOperation
	}
	status := "ok"
	if len(gqlResponse.Errors) > 0 {
		status = "error"
	}
	h.requests.WithLabelValues(opType.String(), status).Inc()
	WriteResponse(w, gqlResponse)
}

// Parse parses a GraphQL HTTP request. If an error is returned, StatusCode
// will return the proper HTTP status code to use.
//
// The request method must be POST and the body must be a JSON object in the
// form of graphql.Request.
func Parse(r *http.Request) (graphql.Request, error) {
	if r.Method != http.MethodPost {
		return graphql.Request{}, &httpError{
			msg:  fmt.Sprintf("parse graphql request: method %s not allowed", r.Method),
			code: http.StatusMethodNotAllowed,
		}
	}
	rawContentType := r.Header.Get("Content-Type")
	contentType, _, err := mime.ParseMediaType(rawContentType)
	if err != nil {
		return graphql.Request{}, &httpError{
			msg:  "parse graphql request: invalid content type: " + rawContentType,
			code: http.StatusUnsupportedMediaType,
		}
	}
	if contentType != "application/json" {
		return graphql.Request{}, &httpError{
			msg:  "parse graphql request: unrecognized content type: " + contentType,
			code: http.StatusUnsupportedMediaType,
		}
	}
	var request graphql.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return graphql.Request{}, &httpError{
			msg:   "parse graphql request: ",
			code:  http.StatusBadRequest,
			cause: err,
		}
	}
	if len(request.Fields) == 0 {
		return graphql.Request{}, &httpError{
			msg:  "parse graphql request: empty field tree",
			code: http.StatusBadRequest,
		}
	}
	return request, nil
}

type httpError struct {
	msg   string
	code  int
	cause error
}

func (e *httpError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// StatusCode returns the HTTP status code an error indicates.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *httpError
	if !xerrors.As(err, &e) {
		return http.StatusInternalServerError
	}
	return e.code
}

// WriteResponse writes a GraphQL result as an HTTP response.
func WriteResponse(w http.ResponseWriter, response graphql.Response) {
	payload, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "GraphQL marshal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	if _, err := w.Write(payload); err != nil {
		return
	}
}
