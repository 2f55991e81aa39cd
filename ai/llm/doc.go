// Package llm implements the ai interfaces on top of langchaingo, with a
// provider switch covering OpenAI-compatible APIs, Google AI and Ollama.
package llm
