// Copyright 2025 Poiesic Systems
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
	// ErrInvalidDocumentRecord indicates a DocumentRecord failed validation.
	ErrInvalidDocumentRecord = errors.New("invalid document record")

	// ErrInvalidSegment indicates a Segment failed validation.
	ErrInvalidSegment = errors.New("invalid segment")

	// ErrInvalidStatus indicates an undeclared DocStatus value.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("document name cannot be empty")

	// ErrEmptySegmentText indicates the segment Text field is empty.
	ErrEmptySegmentText = errors.New("segment text cannot be empty")

	// ErrErrorTooLong indicates an error message exceeding MaxErrorLen.
	ErrErrorTooLong = errors.New("error message exceeds maximum length")

	// ErrSegmentCountMismatch indicates SegmentsCount disagrees with the
	// Ready status invariant.
	ErrSegmentCountMismatch = errors.New("segments count must be positive exactly when status is READY")
)
