// Package search answers questions about indexed events. Searcher
// exposes raw similarity search over a loaded vector store; Assistant
// wraps it with a completion model to produce grounded recommendations.
package search
