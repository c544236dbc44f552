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


// Package storage provides the storage abstraction layer for docmind.
//
// This package defines the two durable/semi-durable stores the pipeline
// relies on, decoupled from any concrete backend:
//
//   - ConversationRepository: durable load/save of Conversation aggregates
//     and their embedded document records, keyed by conversation ID.
//   - SegmentCache: a time-expiring store of extracted text segments keyed
//     by document ID. Entries are written atomically as one list per
//     document and expire as a unit; expiry is the sole source of staleness
//     and is tolerated at read time rather than synchronized away.
//
// The two stores deliberately have no ownership relationship: a READY
// document record whose cache entry has expired is an expected, bounded
// inconsistency that retrieval degrades around and the resegment sweep
// repairs.
//
// # Usage
//
// Create the BadgerDB-backed stores:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	conversations := badger.NewConversationRepository(backend)
//	cache := badger.NewSegmentCache(backend)
//
// Use in tests with in-memory storage:
//
//	conversations, cache, backend, err := badger.NewMemoryStores()
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines. Mutation of any single document record is
// single-writer by construction (the coordinator on creation, one worker
// job thereafter), so aggregate-level last-write-wins is sufficient.
package storage
