package collector

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirSize sums the sizes of all regular files below root and reports the
// newest modification time among them. Symlinks are followed, and each
// file is counted once even when several links lead to it. Entries that
// cannot be read are skipped; only a failure on root itself is returned.
func DirSize(ctx context.Context, root string) (uint64, time.Time, error) {
	w := &sizeWalker{ctx: ctx, walked: make(map[string]bool)}

	top := root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		top = resolved
	}
	if err := w.walk(top, true); err != nil {
		return 0, time.Time{}, err
	}
	return w.total, w.newest, nil
}

// sizeWalker walks real paths only, so a directory reached through a link
// is recognised by its resolved path.
type sizeWalker struct {
	ctx    context.Context
	walked map[string]bool
	total  uint64
	newest time.Time
}

func (w *sizeWalker) add(info fs.FileInfo) {
	w.total += uint64(info.Size())
	if info.ModTime().After(w.newest) {
		w.newest = info.ModTime()
	}
}

func (w *sizeWalker) walk(root string, top bool) error {
	w.walked[root] = true
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && top {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := w.ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && w.walked[path] {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return w.follow(path)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		w.add(info)
		return nil
	})
}

// follow counts the target of a symlink found during a walk. A target
// inside a tree already being walked is left to that walk.
func (w *sizeWalker) follow(path string) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil || w.covered(resolved) {
		return nil
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil
	}
	if info.Mode().IsRegular() {
		w.add(info)
		return nil
	}
	if !info.IsDir() {
		return nil
	}
	return w.walk(resolved, false)
}

func (w *sizeWalker) covered(path string) bool {
	sep := string(filepath.Separator)
	for root := range w.walked {
		if path == root || strings.HasPrefix(path, strings.TrimSuffix(root, sep)+sep) {
			return true
		}
	}
	return false
}
