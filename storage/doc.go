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


// Package storage provides the document-store abstraction for the pipeline.
//
// It defines repository interfaces that decouple the pipeline stages from the
// storage implementation, so different backends (BadgerDB, in-memory, a
// remote document service) can be used interchangeably.
//
// All public constructors of implementation packages return interface types
// to enforce abstraction:
//
//	docs, err := badger.NewDocumentRepository(backend)  // storage.DocumentRepository
//
// Serialization of stored values uses mus-go serializers generated into the
// core package by `go generate ./core`.
//
// All repository implementations must be thread-safe; every method accepts a
// context.Context for cancellation.
package storage
