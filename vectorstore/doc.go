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


// Package vectorstore abstracts the vector index the pipeline ingests into.
//
// The pipeline treats the index as a map from project ID to a set of vectors
// that is replaced wholesale on each run: delete everything for the project,
// then insert the new vectors. The Store interface exposes exactly the
// operations that semantic needs, including the two deletion paths (native
// project-filter delete and id-based batch delete for stores without one).
//
// Sub-packages:
//
//   - vectorstore/badger: BadgerDB-backed index with cosine-similarity query
//   - vectorstore/mock: test double with injectable behavior
package vectorstore
