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

// Package resegment rebuilds expired segment cache entries.
//
// Cached segments carry a TTL, so a READY document can lose its segments
// while its record still says READY. The Sweeper walks every conversation,
// finds READY documents with no cache entry, and re-enqueues extraction
// with Force set so the worker rebuilds the cache from the source file.
//
// The sweep is idempotent and safe to run on a schedule or by hand.
package resegment
