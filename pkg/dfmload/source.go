package dfmload

import "context"

// DocumentHandle identifies one input document held by a source.
type DocumentHandle struct {
	// Path locates the document within its source (absolute file path for
	// the filesystem source).
	Path string

	// Name is the display name used in logs and stored as raw_documents
	// provenance (base filename for the filesystem source).
	Name string
}

// ParsedDocument is the result of reading one document: the raw text exactly
// as stored upstream plus its typed parse. Raw is preserved so the loader can
// keep the document's own denormalized blob alongside the flattened rows.
type ParsedDocument struct {
	Handle DocumentHandle
	Raw    []byte
	Doc    *Document
}

// DocumentSource supplies the input documents of a run.
// Implementations must not mutate documents between calls.
type DocumentSource interface {
	// ListDocuments enumerates the documents of this run in a deterministic
	// order.
	ListDocuments(ctx context.Context) ([]DocumentHandle, error)

	// ReadDocument reads and parses one document. A document that cannot be
	// parsed as the expected tree shape fails with an ErrParse-wrapped error;
	// the run harness skips it and continues.
	ReadDocument(ctx context.Context, handle DocumentHandle) (*ParsedDocument, error)
}
