// Copyright 2025 RAGify Authors
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


// Package splitter segments text into bounded, overlapping pieces.
//
// The splitter is pure and stateless: given the same text and parameters it
// always produces the same pieces, performs no I/O, and never mutates its
// input. Three strategies are supported:
//
//   - semantic: recursive separator hierarchy with greedy merging and
//     overlap regions seeded from natural break points
//   - fixed: non-semantic sliding character window
//   - hybrid: whole paragraphs when they fit, sentence packing otherwise
//
// Piece contents are trimmed of surrounding whitespace, but StartIndex and
// EndIndex always refer to the untrimmed span of the source text. Callers
// must not assume EndIndex-StartIndex equals len(Content).
package splitter
