package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/htmlindent/pkg/fsutil"
	"github.com/yaklabco/htmlindent/pkg/langdetect"
)

// Discover returns the absolute, sorted and deduplicated paths of the files
// opts selects.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		seen:       make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			// Named files bypass the extension filter but not ignores.
			if !d.ignored(abs) {
				d.add(abs)
			}
			continue
		}

		if err := d.walk(ctx, abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	opts       Options
	workDir    string
	extensions []string
	seen       map[string]struct{}
	files      []string
}

func (d *discoverer) add(file string) {
	if _, ok := d.seen[file]; ok {
		return
	}
	d.seen[file] = struct{}{}
	d.files = append(d.files, file)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if p != root && d.skipDir(p, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") || fsutil.IsBackup(p) {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(ctx, p)
		}

		if d.wanted(p) {
			d.add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a link found during a walk. Links to files are taken
// like files; links to directories are walked only with FollowSymlinks.
// Broken links are skipped.
func (d *discoverer) symlink(ctx context.Context, p string) error {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return nil //nolint:nilerr // Broken symlinks are skipped.
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Unreadable targets are skipped.
	}

	if !info.IsDir() {
		if d.wanted(p) {
			d.add(p)
		}
		return nil
	}
	if !d.opts.FollowSymlinks || d.skipDir(p, filepath.Base(p)) {
		return nil
	}
	// WalkDir does not follow a symlinked root, so walk the target.
	return d.walk(ctx, target)
}

func (d *discoverer) skipDir(p, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if d.opts.SkipVendored && langdetect.IsVendored(d.rel(p)+"/") {
		return true
	}
	return d.ignored(p)
}

func (d *discoverer) wanted(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return slices.Contains(d.extensions, ext) && !d.ignored(p)
}

func (d *discoverer) ignored(p string) bool {
	rel := d.rel(p)
	for _, pattern := range d.opts.Ignore {
		if MatchGlob(pattern, rel) {
			return true
		}
	}
	return false
}

func (d *discoverer) rel(p string) string {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// MatchGlob reports whether the slash-separated relative path matches
// pattern. Segments match with path.Match; "**" matches zero or more
// segments. A pattern without a slash also matches the base name, so "*.min.html"
// applies at any depth.
func MatchGlob(pattern, rel string) bool {
	pattern = filepath.ToSlash(pattern)
	rel = filepath.ToSlash(rel)

	if !strings.Contains(pattern, "/") && pattern != "**" {
		ok, err := path.Match(pattern, path.Base(rel))
		if err == nil && ok {
			return true
		}
	}

	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

func matchSegments(pattern, segments []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(segments); i++ {
				if matchSegments(rest, segments[i:]) {
					return true
				}
			}
			return false
		}

		if len(segments) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], segments[0])
		if err != nil || !ok {
			return false
		}
		pattern, segments = pattern[1:], segments[1:]
	}
	return len(segments) == 0
}
