package service

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/pyted/domain"
)

// PairCollectorImpl pairs the files of a buggy and a patch directory
type PairCollectorImpl struct{}

// NewPairCollector creates a new pair collector
func NewPairCollector() *PairCollectorImpl {
	return &PairCollectorImpl{}
}

// CollectPairs matches files with the same relative path in both directories.
// Files present on only one side are reported as unmatched.
func (c *PairCollectorImpl) CollectPairs(buggyDir, patchDir string, includePatterns, excludePatterns []string) (*domain.PairSet, error) {
	buggyFiles, err := c.collectFiles(buggyDir, includePatterns, excludePatterns)
	if err != nil {
		return nil, err
	}
	patchFiles, err := c.collectFiles(patchDir, includePatterns, excludePatterns)
	if err != nil {
		return nil, err
	}

	set := &domain.PairSet{}
	for rel := range buggyFiles {
		if !patchFiles[rel] {
			set.UnmatchedBuggy = append(set.UnmatchedBuggy, rel)
			continue
		}
		set.Pairs = append(set.Pairs, domain.FilePair{
			Name:      rel,
			BuggyPath: filepath.Join(buggyDir, filepath.FromSlash(rel)),
			PatchPath: filepath.Join(patchDir, filepath.FromSlash(rel)),
		})
	}
	for rel := range patchFiles {
		if !buggyFiles[rel] {
			set.UnmatchedPatch = append(set.UnmatchedPatch, rel)
		}
	}

	sort.Slice(set.Pairs, func(i, j int) bool { return set.Pairs[i].Name < set.Pairs[j].Name })
	sort.Strings(set.UnmatchedBuggy)
	sort.Strings(set.UnmatchedPatch)
	return set, nil
}

// collectFiles returns the slash-separated relative paths of matching files
func (c *PairCollectorImpl) collectFiles(dir string, includePatterns, excludePatterns []string) (map[string]bool, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, domain.NewFileNotFoundError(dir, err)
	}
	if !info.IsDir() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a directory: %s", dir), nil)
	}

	for _, pattern := range append(append([]string{}, includePatterns...), excludePatterns...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", pattern), nil)
		}
	}

	fsys := os.DirFS(dir)
	files := make(map[string]bool)
	for _, pattern := range includePatterns {
		err := doublestar.GlobWalk(fsys, pattern, func(rel string, d fs.DirEntry) error {
			if d.IsDir() || isHidden(rel) || c.isExcluded(rel, excludePatterns) {
				return nil
			}
			files[rel] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", dir, err)
		}
	}
	return files, nil
}

// isExcluded matches the relative path and its base name against the exclude globs
func (c *PairCollectorImpl) isExcluded(rel string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, path.Base(rel)); matched {
			return true
		}
	}
	return false
}

// isHidden reports whether any path element starts with a dot
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}
