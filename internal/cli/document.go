package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/errors"
	"github.com/matzehuels/bentogrid/pkg/store"
)

// decodeFile reads a document file as stored, without repairing it.
func (c *CLI) decodeFile(path string) (*bento.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "document %s not found", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return bento.Decode(data, c.breakpoints())
}

// readDocument decodes and repairs a document file. Every fix is logged
// at warn level.
func (c *CLI) readDocument(ctx context.Context, path string) (*bento.Document, []bento.Fix, error) {
	doc, err := c.decodeFile(path)
	if err != nil {
		return nil, nil, err
	}
	fixed, fixes := bento.Repair(doc, c.breakpoints(), c.repairOptions())
	logger := loggerFromContext(ctx)
	for _, f := range fixes {
		logger.Warn("repaired", "file", path, "fix", f.String())
	}
	return fixed, fixes, nil
}

// writeDocument saves doc to path atomically.
func (c *CLI) writeDocument(ctx context.Context, path string, doc *bento.Document) error {
	return store.OpenDocumentFile(path, c.breakpoints()).Save(ctx, doc)
}

// projectedPath turns "bento.json" into "bento.projected.json".
func projectedPath(input string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		return input + ".projected.json"
	}
	return strings.TrimSuffix(input, ext) + ".projected" + ext
}
