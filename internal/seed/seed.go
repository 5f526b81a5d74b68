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

// Package seed holds the fixture data the server starts with when it runs
// without durable storage.
package seed

import (
	"zombiezen.com/go/photoshare-server/datetime"
	"zombiezen.com/go/photoshare-server/photoshare"
	"zombiezen.com/go/photoshare-server/photostore"
)

// Users returns the fixture users in insertion order.
func Users() []photostore.User {
	return []photostore.User{
		{Login: "mHattrup", Name: "Mike Hattrup"},
		{Login: "gPlake", Name: "Glen Plake"},
		{Login: "sSchmidt", Name: "Scot Schmidt"},
	}
}

// Photos returns the fixture photos in insertion order.
func Photos() []photostore.Photo {
	return []photostore.Photo{
		{
			ID:          "1",
			Name:        "Dropping the Heart Chute",
			Description: "The heart chute is one of my favorite chutes",
			Category:    "ACTION",
			OwnerLogin:  "gPlake",
			Created:     mustParse("3-28-1977"),
		},
		{
			ID:         "2",
			Name:       "Enjoying the sunshine",
			Category:   "SELFIE",
			OwnerLogin: "sSchmidt",
			Created:    mustParse("1-2-1985"),
		},
		{
			ID:          "3",
			Name:        "Gunbarrel 25",
			Description: "25 laps on gunbarrel today",
			Category:    "LANDSCAPE",
			OwnerLogin:  "sSchmidt",
			Created:     mustParse("2018-04-15T19:09:57.308Z"),
		},
	}
}

// Tags returns the fixture tag list. Photo 2 carries three tags; their
// order here is the order clients observe.
func Tags() []photoshare.Tag {
	return []photoshare.Tag{
		{PhotoID: "1", UserLogin: "gPlake"},
		{PhotoID: "2", UserLogin: "sSchmidt"},
		{PhotoID: "2", UserLogin: "mHattrup"},
		{PhotoID: "2", UserLogin: "gPlake"},
	}
}

func mustParse(s string) datetime.DateTime {
	d, err := datetime.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}
