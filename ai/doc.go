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


// Package ai provides abstractions for the AI services used in Eventide.
//
// The indexing and query paths depend only on two narrow interfaces:
//
//   - Embedder: maps text to fixed-length numeric vectors
//   - Completer: generates a grounded answer from a prompt
//
// AIProvider aggregates both for convenient initialization. Concrete
// implementations live in sub-packages:
//
//   - ai/openai: production implementation over OpenAI-compatible APIs
//     (Mistral's hosted API, or local servers such as Ollama)
//   - ai/mock: deterministic test doubles
//
// Production constructors return interface types to keep callers
// decoupled from any particular model API; mock constructors return
// concrete types so tests can inject behavior and assert call counts.
package ai
