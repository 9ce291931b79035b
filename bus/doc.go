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


// Package bus provides the event transport between pipeline stages.
//
// The contract is deliberately broker-shaped: topics, per-key ordering
// domains, byte payloads, and at-least-once delivery. The in-memory
// implementation runs every delivery as an independent worker-pool task, so
// swapping in a real broker later changes wiring, not stage code.
package bus
