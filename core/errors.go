// Copyright 2025 The chatting-with-docs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyText indicates an Entry with no text content.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyCollectionName indicates a collection name that is empty or blank.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")

	// ErrMissingVector indicates an Entry without an embedding vector.
	ErrMissingVector = errors.New("entry vector cannot be empty")
)
