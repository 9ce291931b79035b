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


package ragify

import (
	"log/slog"

	"github.com/shakedshoshan/RAGify-sub000/ai"
	"github.com/shakedshoshan/RAGify-sub000/ai/openai"
	"github.com/shakedshoshan/RAGify-sub000/bus"
	"github.com/shakedshoshan/RAGify-sub000/pipeline"
	"github.com/shakedshoshan/RAGify-sub000/storage"
	"github.com/shakedshoshan/RAGify-sub000/storage/badger"
	"github.com/shakedshoshan/RAGify-sub000/vectorstore"
	vectorbadger "github.com/shakedshoshan/RAGify-sub000/vectorstore/badger"
)

// Workspace bundles the document store, chunk store, vector index, and
// embedding provider of a single project database behind one open/close
// lifecycle.
type Workspace struct {
	backend  *badger.Backend
	docs     storage.DocumentRepository
	chunks   storage.ChunkRepository
	vectors  vectorstore.Store
	embedder ai.Embedder
	logger   *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the embedding provider configuration.
func WithAIConfig(cfg *ai.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.aiConfig = cfg
	}
}

// OpenWorkspace opens the BadgerDB database at filePath and wires the
// repositories, vector store, and embedder on top of it.
func OpenWorkspace(filePath string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	docs, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunks, err := badger.NewChunkRepository(backend)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		chunks.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	return &Workspace{
		backend:  backend,
		docs:     docs,
		chunks:   chunks,
		vectors:  vectorbadger.NewStore(backend),
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

func (w *Workspace) Close() error {
	if err := w.chunks.Close(); err != nil {
		w.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := w.docs.Close(); err != nil {
		w.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (w *Workspace) DocumentRepository() storage.DocumentRepository {
	return w.docs
}

func (w *Workspace) ChunkRepository() storage.ChunkRepository {
	return w.chunks
}

func (w *Workspace) VectorStore() vectorstore.Store {
	return w.vectors
}

func (w *Workspace) Embedder() ai.Embedder {
	return w.embedder
}

// NewOrchestrator wires a pipeline orchestrator over the workspace's stores
// and the given bus. The caller owns the bus lifecycle.
func (w *Workspace) NewOrchestrator(b bus.Bus, opts ...pipeline.Option) (*pipeline.Orchestrator, error) {
	return pipeline.NewOrchestrator(b, w.docs, w.chunks, w.vectors, w.embedder, opts...)
}
