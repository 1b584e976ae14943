package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/calyptra/scrapbook/pkg/types"
)

// MemoryCreator is the slice of the archive facade the importer needs.
type MemoryCreator interface {
	CreateMemory(ctx context.Context, draft types.MemoryDraft) (string, error)
}

// Result summarises a directory import.
type Result struct {
	Imported int      // entries created
	Skipped  int      // files that failed to parse or validate
	Errors   []string // one message per skipped file
}

// ImportDirectory walks root for .md files and creates a text memory for each
// parseable entry. Files that fail to parse are skipped and reported, they
// never abort the rest of the import.
func ImportDirectory(ctx context.Context, store MemoryCreator, root string) (*Result, error) {
	res := &Result{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", rel, readErr))
			return nil
		}

		entry, parseErr := ParseEntry(content, rel)
		if parseErr != nil {
			res.Skipped++
			res.Errors = append(res.Errors, parseErr.Error())
			return nil
		}

		if _, createErr := store.CreateMemory(ctx, entry.Draft); createErr != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", rel, createErr))
			return nil
		}
		res.Imported++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("importer: walk %s: %w", root, err)
	}

	log.Printf("importer: imported %d entries from %s (%d skipped)", res.Imported, root, res.Skipped)
	return res, nil
}
