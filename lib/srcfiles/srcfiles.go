// Package srcfiles resolves the path arguments of the gettextmap commands
// into the list of Go source files to process.
package srcfiles

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

var log = logging.Logger("srcfiles")

// Find expands args (files and directories, "." when empty) into a sorted,
// deduplicated list of Go files. Directories are walked recursively,
// skipping vendor, testdata, dot- and underscore-directories, and any file
// matching one of the exclude globs. A path given explicitly as a file
// argument bypasses the excludes: the user asked for that file.
func Find(args, excludes []string) ([]string, error) {
	matchers, err := compileExcludes(excludes)
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, xerrors.Errorf("stat %s: %w", arg, err)
		}
		if !st.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".go") {
				return nil
			}
			if excluded(matchers, path) {
				log.Debugf("excluding %s", path)
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, xerrors.Errorf("walking %s: %w", arg, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, xerrors.Errorf("bad exclude pattern %q: %w", p, err)
		}
		matchers = append(matchers, g)

		// "**/x.go" should also catch a plain "x.go" at the walk root,
		// where the relative path has no separator yet
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			g, err := glob.Compile(rest, '/')
			if err != nil {
				return nil, xerrors.Errorf("bad exclude pattern %q: %w", p, err)
			}
			matchers = append(matchers, g)
		}
	}
	return matchers, nil
}

// excluded matches the slash-normalized path and, separately, its base name,
// so both "**/*_gen.go" and "zz_generated.go" work as patterns.
func excluded(matchers []glob.Glob, path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range matchers {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}

func skipDir(name string) bool {
	if name == "vendor" || name == "testdata" {
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
