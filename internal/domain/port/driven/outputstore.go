package driven

import "github.com/ericfisherdev/reviewsync/internal/domain/model"

// OutputStore defines the driven port for the on-disk sync output of one
// pull request. Each write replaces the previous file; concurrent runs
// against the same PR are not coordinated (last writer wins).
type OutputStore interface {
	// Dir returns the directory holding the output for ref.
	Dir(ref model.PRRef) string
	WriteMeta(ref model.PRRef, meta model.PRMeta) (string, error)
	// WriteEntities writes the newline-delimited JSON entity stream.
	WriteEntities(ref model.PRRef, jsonl string) (string, error)
	WriteDigest(ref model.PRRef, html []byte) (string, error)
	// ReadEntities returns the previously written entity stream, verbatim.
	ReadEntities(ref model.PRRef) (string, error)
}
