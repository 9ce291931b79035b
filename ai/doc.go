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


// Package ai abstracts the embedding provider used by the pipeline.
//
// The pipeline depends only on the Embedder interface, following the
// dependency inversion principle, so embedding backends can be swapped
// without touching business logic.
//
// Implementation packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//     through langchaingo
//   - ai/mock: deterministic test double for unit testing without external
//     dependencies
//
// Public constructors (openai.NewEmbedder) return the interface type to
// enforce abstraction. The mock constructor returns a concrete type so tests
// can inject behavior and make assertions.
package ai
