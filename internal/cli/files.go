package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/planarkit/pkg/errors"
	"github.com/matzehuels/planarkit/pkg/graph"
	"github.com/matzehuels/planarkit/pkg/httputil"
)

// loadDocument reads a clustered graph document from a local path or an
// http(s) URL.
func loadDocument(ctx context.Context, path string) (graph.Clustered, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return fetchDocument(ctx, path)
	}
	if err := errors.ValidatePath(path); err != nil {
		return graph.Clustered{}, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return graph.Clustered{}, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	doc, err := graph.ReadClusteredFile(path)
	if err != nil {
		return graph.Clustered{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", path)
	}
	return doc, nil
}

func fetchDocument(ctx context.Context, url string) (graph.Clustered, error) {
	data, err := httputil.Fetch(ctx, nil, url)
	if err != nil {
		return graph.Clustered{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "fetch %s", url)
	}
	doc, err := graph.UnmarshalClustered(data)
	if err != nil {
		return graph.Clustered{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse %s", url)
	}
	return doc, nil
}

// writeFile writes data to path, or to stdout when path is empty.
func writeFile(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
