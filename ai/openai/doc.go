// Package openai implements the ai interfaces over OpenAI-compatible
// HTTP APIs through the langchaingo client.
//
// "OpenAI-compatible" covers the hosted Mistral API the system defaults
// to as well as local servers (Ollama, LocalAI, vLLM); the host, key,
// and model identifiers all come from ai.Config.
package openai
