// Package crawler walks source trees and streams extracted file facts.
package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"

	"typescope/internal/extractor"
	"typescope/internal/oracle"
)

// Crawler scans a directory for Go source files.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor) *Crawler {
	return &Crawler{
		extractor: ext,
		ignored:   []string{".git", "vendor", "node_modules", "testdata"},
	}
}

// ScanProject walks the root directory and processes all relevant files.
// It streams per-file facts through the callback to avoid buffering the
// whole tree in memory.
func (c *Crawler) ScanProject(root string, onFile func(*extractor.FileFacts)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}

		facts, err := c.extractor.ExtractFromFile(path)
		if err != nil {
			// A file that fails to parse should not fail the whole scan.
			return nil
		}
		onFile(facts)
		return nil
	})
}

// BuildCatalog scans every given root and assembles one catalog oracle from
// all harvested files.
func (c *Crawler) BuildCatalog(roots []string) (*oracle.Catalog, error) {
	var files []*extractor.FileFacts
	for _, root := range roots {
		err := c.ScanProject(root, func(f *extractor.FileFacts) {
			files = append(files, f)
		})
		if err != nil {
			return nil, err
		}
	}
	return extractor.BuildCatalog(files), nil
}
