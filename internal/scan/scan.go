package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/rs/zerolog"
)

// ErrRootMissing is returned by New when the traversal root does not exist.
var ErrRootMissing = errors.New("root directory does not exist")

// DefaultExcludes are the directory names skipped unless configured otherwise.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{"node_modules", ".git", "__pycache__", "venv", "user_data"}

// Options configures a Scanner.
type Options struct {
	// Root is the directory to walk.
	Root string
	// Exclude holds directory names that are never descended into.
	Exclude []string
	// Patterns holds regular expressions; matching directories are pruned and
	// matching files dropped.
	Patterns []string
	// Extensions restricts files by suffix (empty = all files).
	Extensions []string
	// Skip lists files that must never be reported, such as the report being written.
	Skip []string
	// MaxDepth is the maximum traversal depth (0=unlimited).
	MaxDepth int
	// GitIgnore applies the .gitignore found at Root.
	GitIgnore bool
	// workers overrides the single fastwalk worker; only set in tests.
	workers int
	// Logger receives debug output about pruned entries.
	Logger zerolog.Logger
}

// Scanner walks a single traversal root.
type Scanner struct {
	root     string
	absRoot  string
	excluded map[string]struct{}
	patterns []*regexp.Regexp
	suffixes Suffixes
	skip     map[string]struct{}
	ignore   gitignore.IgnoreMatcher
	conf     fastwalk.Config
	log      zerolog.Logger
}

// New validates opt.Root and prepares the filters.
func New(opt Options) (*Scanner, error) {
	if opt.Root == "" {
		opt.Root = "."
	}

	root := filepath.Clean(opt.Root)

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("accessing path %q: %w: %w", root, ErrRootMissing, err)
	}

	if err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	patterns := make([]*regexp.Regexp, 0, len(opt.Patterns))

	for _, p := range opt.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		patterns = append(patterns, re)
	}

	skip := make(map[string]struct{}, len(opt.Skip))

	for _, p := range opt.Skip {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving absolute path of %q: %w", p, err)
		}

		skip[abs] = struct{}{}
	}

	workers := opt.workers
	if workers <= 0 {
		workers = 1
	}

	s := &Scanner{
		root:     root,
		absRoot:  absRoot,
		excluded: nameSet(opt.Exclude),
		patterns: patterns,
		suffixes: NewSuffixes(opt.Extensions),
		skip:     skip,
		conf: fastwalk.Config{
			Follow:     false,
			Sort:       fastwalk.SortLexical,
			NumWorkers: workers,
			MaxDepth:   opt.MaxDepth,
		},
		log: opt.Logger,
	}

	if opt.GitIgnore {
		s.loadGitIgnore()
	}

	s.log.Debug().
		Str("root", root).
		Strs("exclude", opt.Exclude).
		Strs("patterns", opt.Patterns).
		Strs("extensions", opt.Extensions).
		Int("depth", opt.MaxDepth).
		Msg("scanner configured")

	return s, nil
}

// Root returns the cleaned traversal root.
func (s *Scanner) Root() string {
	return s.root
}

// loadGitIgnore reads Root/.gitignore if present. A broken file is logged and ignored.
func (s *Scanner) loadGitIgnore() {
	path := filepath.Join(s.root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return
	}

	matcher, err := gitignore.NewGitIgnore(path, s.root)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("could not parse .gitignore")

		return
	}

	s.ignore = matcher
}

// Walk calls fn for every qualifying file below the root.
// An error returned by fn ends the walk and is returned as is.
//
//nolint:varnamelen // d is standard for DirEntry
func (s *Scanner) Walk(ctx context.Context, fn func(path string, d fs.DirEntry) error) error {
	return fastwalk.Walk(&s.conf, s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return fmt.Errorf("reading root %q: %w", path, err)
			}

			s.log.Warn().Err(err).Str("path", path).Msg("cannot access path")

			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if path == s.root {
			return nil
		}

		if d.IsDir() {
			if s.pruneDir(path, d.Name()) {
				return fastwalk.SkipDir
			}

			return nil
		}

		if !s.qualifies(path, d) {
			return nil
		}

		return fn(path, d)
	})
}

// Files returns every qualifying file, sorted lexically by path.
// The explicit sort makes the order independent of directory enumeration.
func (s *Scanner) Files(ctx context.Context) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	err := s.Walk(ctx, func(path string, _ fs.DirEntry) error {
		mu.Lock()
		defer mu.Unlock()

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	return files, nil
}

// pruneDir reports whether the directory at path must not be descended into.
func (s *Scanner) pruneDir(path, name string) bool {
	if _, ok := s.excluded[name]; ok {
		s.log.Debug().Str("path", path).Msg("excluding directory by name")

		return true
	}

	if re := matchPattern(path, s.patterns); re != nil {
		s.log.Debug().Str("path", path).Str("regex", re.String()).Msg("excluding directory by pattern")

		return true
	}

	if s.ignore != nil && s.ignore.Match(path, true) {
		s.log.Debug().Str("path", path).Msg("excluding directory by .gitignore")

		return true
	}

	return false
}

// qualifies applies the file filters to a non-directory entry.
//
//nolint:varnamelen // d is standard for DirEntry
func (s *Scanner) qualifies(path string, d fs.DirEntry) bool {
	switch typ := d.Type(); {
	case typ.IsRegular():
	case typ&fs.ModeSymlink != 0:
		// Links to directories are not followed; dangling links are kept so
		// the consumer reports them.
		if info, err := fastwalk.StatDirEntry(path, d); err == nil && info.IsDir() {
			return false
		}
	default:
		return false
	}

	if !s.suffixes.Match(d.Name()) {
		return false
	}

	if re := matchPattern(path, s.patterns); re != nil {
		s.log.Debug().Str("path", path).Str("regex", re.String()).Msg("excluding file by pattern")

		return false
	}

	if s.ignore != nil && s.ignore.Match(path, false) {
		s.log.Debug().Str("path", path).Msg("excluding file by .gitignore")

		return false
	}

	if len(s.skip) > 0 {
		rel, err := filepath.Rel(s.root, path)
		if err == nil {
			if _, ok := s.skip[filepath.Join(s.absRoot, rel)]; ok {
				s.log.Debug().Str("path", path).Msg("skipping report file")

				return false
			}
		}
	}

	return true
}
