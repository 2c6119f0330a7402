package ingest

import (
	"context"
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
)

//go:embed data/financials.json
var embeddedDataset []byte

// Source loads the raw dataset. Load is called once per request; nothing is cached.
type Source interface {
	Load(ctx context.Context) ([]RawCompanyRecord, error)
}

// EmbeddedSource serves the dataset compiled into the binary.
type EmbeddedSource struct{}

// Load parses the embedded dataset.
func (EmbeddedSource) Load(_ context.Context) ([]RawCompanyRecord, error) {
	return ParseJSON(embeddedDataset)
}

// FileSource reads a JSON or YAML dataset from disk on every Load.
type FileSource struct {
	Path string
}

// NewFileSource creates a source for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads and parses the file.
func (s *FileSource) Load(ctx context.Context) ([]RawCompanyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read dataset %s", s.Path)
	}
	return Parse(data, FormatFromPath(s.Path))
}
