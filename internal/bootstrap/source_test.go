package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/config"
	"github.com/mauv0809/finmetrics/internal/ingest"
)

func TestOpenDataset_Embedded(t *testing.T) {
	ds, err := OpenDataset(context.Background(), &config.Config{}, zap.NewNop())
	require.NoError(t, err)
	defer ds.Close()

	assert.IsType(t, ingest.EmbeddedSource{}, ds.Source)
	assert.Nil(t, ds.Repo)
}

func TestOpenDataset_File(t *testing.T) {
	cfg := &config.Config{Dataset: config.DatasetConfig{Source: config.SourceFile, Path: "data.yaml"}}
	ds, err := OpenDataset(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	fs, ok := ds.Source.(*ingest.FileSource)
	require.True(t, ok)
	assert.Equal(t, "data.yaml", fs.Path)
}

func TestOpenDataset_Unknown(t *testing.T) {
	cfg := &config.Config{Dataset: config.DatasetConfig{Source: "s3"}}
	_, err := OpenDataset(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
