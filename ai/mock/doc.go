// Package mock provides test double implementations of the AI service
// interfaces.
//
// The mocks let indexing and query tests run without external AI
// services. Defaults are deterministic:
//
//   - MockEmbedder: hash-derived unit vectors, so identical text always
//     embeds identically
//   - MockCompleter: echoes prompt length and records the last prompt
//
// Custom behavior is injected through exported function fields, and
// call counts are available for assertions.
package mock
