// Package ai defines the external model capabilities the pipeline depends
// on: text embedding and multimodal image description. Implementations
// live in subpackages (llm for langchaingo-backed providers, mock for
// test doubles); this package holds only the interfaces and shared
// configuration so pipeline stages never couple to a specific backend.
package ai
