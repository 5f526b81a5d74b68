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

package photoshare

import (
	"context"
	"fmt"

	"golang.org/x/xerrors"
	"zombiezen.com/go/photoshare-server/datetime"
	"zombiezen.com/go/photoshare-server/graphql"
	"zombiezen.com/go/photoshare-server/photostore"
)

// Category classifies a photo. The set is closed; unknown values are
// rejected before a photo is created.
type Category string

// The photo categories.
const (
	CategorySelfie    Category = "SELFIE"
	CategoryPortrait  Category = "PORTRAIT"
	CategoryAction    Category = "ACTION"
	CategoryLandscape Category = "LANDSCAPE"
	CategoryGraphic   Category = "GRAPHIC"
)

func categoryNames() []string {
	return []string{
		string(CategorySelfie),
		string(CategoryPortrait),
		string(CategoryAction),
		string(CategoryLandscape),
		string(CategoryGraphic),
	}
}

// Photo presents a stored photo record to the engine.
type Photo struct {
	rec photostore.Photo
	app *App
}

func newPhoto(app *App, rec photostore.Photo) *Photo {
	return &Photo{rec: rec, app: app}
}

// ID returns the photo's identifier.
func (p *Photo) ID() string {
	return p.rec.ID
}

// URL derives the photo's image location from its identifier. It depends on
// nothing else, so equal identifiers always yield equal URLs.
func (p *Photo) URL() string {
	return fmt.Sprintf("http://yoursite.com/img/%s.jpg", p.rec.ID)
}

// Name returns the photo's title.
func (p *Photo) Name() string {
	return p.rec.Name
}

// Description returns the photo's description, or null if it has none.
func (p *Photo) Description() graphql.NullString {
	if p.rec.Description == "" {
		return graphql.NullString{}
	}
	return graphql.NullString{S: p.rec.Description, Valid: true}
}

// Category returns the photo's category.
func (p *Photo) Category() Category {
	return Category(p.rec.Category)
}

// Created returns the canonical creation instant.
func (p *Photo) Created() datetime.DateTime {
	return p.rec.Created
}

// PostedBy resolves the photo's owner. A dangling owner reference fails
// this field alone; the photo's other fields still resolve.
func (p *Photo) PostedBy(ctx context.Context) (*User, error) {
	u, err := p.app.store.FindUser(ctx, p.rec.OwnerLogin)
	if err != nil {
		return nil, xerrors.Errorf("postedBy of photo %s: %w", p.rec.ID, err)
	}
	return newUser(p.app, u), nil
}

// TaggedUsers resolves the users tagged in this photo, in tag order,
// keeping duplicates.
func (p *Photo) TaggedUsers(ctx context.Context) ([]*User, error) {
	return p.app.taggedUsers(ctx, p.rec.ID)
}
