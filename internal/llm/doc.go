// Package llm asks a language model for category candidates.
//
// Three providers are supported: a local LM Studio server (the default),
// the OpenAI API, both spoken to over the OpenAI-compatible chat completions
// protocol, and Anthropic through its SDK. The Suggester wraps a provider
// with prompt construction, rate limiting, retries and response parsing.
package llm
