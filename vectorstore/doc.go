// Package vectorstore persists document embeddings for exact
// nearest-neighbor retrieval.
//
// A Store ties together three pieces: a FlatIndex (linear-scan squared
// L2 search), the insertion-ordered identifier list mapping index
// positions back to documents, and a document store with each id's
// content and metadata. One batch of documents is embedded and inserted
// per run; Save then writes the store as a self-contained directory
// (index.bin, manifest.json with an integrity checksum, and a Badger
// docstore) that Load reads back as a unit at query time.
package vectorstore
