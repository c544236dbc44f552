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

// Package retrieval selects document segments relevant to a question.
//
// The Engine type reads the current conversation state on every call and
// considers only READY documents, so in-flight or failed ingestion never
// blocks an answer. Candidate segments come from the segment cache; scoring
// is lexical overlap between the question's filtered tokens and each
// segment's text, with stop words and very short tokens removed.
//
// A document whose cache entry has expired is silently skipped. Retrieval
// degrades rather than fails: the caller always gets whatever relevant
// context is currently available.
package retrieval
