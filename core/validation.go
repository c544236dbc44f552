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

import "fmt"

// ValidateDocumentRecord validates a DocumentRecord according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Status must be a declared value
//   - Error must not exceed MaxErrorLen
//   - SegmentsCount must be > 0 exactly when Status is Ready
//
// NOT validated:
//   - DocID (0 is unusual but not forbidden; IDs come from content hashing)
//   - Pages/SizeBytes/Mimetype (optional descriptive metadata)
func ValidateDocumentRecord(record *DocumentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidDocumentRecord)
	}

	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentRecord, ErrEmptyName)
	}

	if !record.Status.Valid() {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidDocumentRecord, ErrInvalidStatus, record.Status)
	}

	if len(record.Error) > MaxErrorLen {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentRecord, ErrErrorTooLong)
	}

	ready := record.Status == DocStatusReady
	if ready != (record.SegmentsCount > 0) {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentRecord, ErrSegmentCountMismatch)
	}

	return nil
}

// ValidateSegment validates a Segment according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Index must not be negative
//   - WordCount must be positive
func ValidateSegment(segment *Segment) error {
	if segment == nil {
		return fmt.Errorf("%w: segment is nil", ErrInvalidSegment)
	}

	if segment.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrEmptySegmentText)
	}

	if segment.Index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrInvalidSegment, segment.Index)
	}

	if segment.WordCount <= 0 {
		return fmt.Errorf("%w: non-positive word count %d", ErrInvalidSegment, segment.WordCount)
	}

	return nil
}

// ValidateStatus validates that a DocStatus has a declared value.
func ValidateStatus(status DocStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
	return nil
}
