package expectgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// writeConcurrency bounds parallel file I/O in Write and Verify.
const writeConcurrency = 12

// FS is a pseudo-filesystem that supports batch-writing its contents to the
// real filesystem, or batch-comparing its contents against it. It exists for
// idiomatic `go generate`-style generators, where generated output is
// committed to version control: the normal behavior is to write files to
// disk, but in CI that flips to verifying that what is already on disk is
// identical to what generation produces.
//
// FS is stateless with respect to inputs: if a union description goes away,
// previously generated files for it are not noticed or removed.
//
// Files may not be removed once added. Path conflicts on Add or Merge are
// errors.
type FS struct {
	mu      sync.Mutex
	entries map[string]*fsEntry
}

type fsEntry struct {
	data  []byte
	owner string
}

// NewFS creates an empty FS, ready for use.
func NewFS() *FS {
	return &FS{
		entries: make(map[string]*fsEntry),
	}
}

// Add adds one or more files to the FS. An error is returned if any of the
// provided files would conflict with a file already added.
func (fs *FS) Add(files ...File) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.add(files...)
}

func (fs *FS) add(files ...File) error {
	var result *multierror.Error
	for _, f := range files {
		if err := f.Validate(); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if prior, has := fs.entries[f.RelativePath]; has {
			result = multierror.Append(result, fmt.Errorf("cannot create %s for %q, already created for %q", f.RelativePath, f.Owner(), prior.owner))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	for _, f := range files {
		fs.entries[f.RelativePath] = &fsEntry{data: f.Data, owner: f.Owner()}
	}
	return nil
}

// Merge combines all the entries from the provided FS into the receiver.
// Duplicate paths result in an error.
func (fs *FS) Merge(other *FS) error {
	other.mu.Lock()
	files := other.asFiles()
	other.mu.Unlock()

	return fs.Add(files...)
}

// AsFiles returns the FS contents as a Files, sorted by path.
func (fs *FS) AsFiles() Files {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.asFiles()
}

func (fs *FS) asFiles() Files {
	fl := make(Files, 0, len(fs.entries))
	for path, e := range fs.entries {
		fl = append(fl, File{RelativePath: path, Data: e.data, From: []string{e.owner}})
	}
	sort.Slice(fl, func(i, j int) bool {
		return fl[i].RelativePath < fl[j].RelativePath
	})
	return fl
}

// Len returns the number of files held.
func (fs *FS) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.entries)
}

// Verify checks the contents of each file against the real filesystem. It
// returns an error describing every contained file that is missing or
// differs.
//
// If the provided prefix is non-empty, it is prepended to all paths. prefix
// may be absolute.
func (fs *FS) Verify(ctx context.Context, prefix string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(writeConcurrency)

	var mu sync.Mutex
	var result *multierror.Error

	for _, f := range fs.asFiles() {
		f := f
		g.Go(func() error {
			path := filepath.Join(prefix, f.RelativePath)
			if _, err := os.Stat(path); err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("%s: could not stat generated file: %w", path, err)
				}
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("%s: generated file should exist, but does not", path))
				mu.Unlock()
				return nil
			}

			onDisk, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%s: error reading file: %w", path, err)
			}
			if diff := cmp.Diff(string(onDisk), string(f.Data)); diff != "" {
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("%s would have changed:\n\n%s", path, diff))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("io error while verifying tree: %w", err)
	}

	return result.ErrorOrNil()
}

// Write writes all of the files to their indicated paths, creating parent
// directories as needed.
//
// If the provided prefix is non-empty, it is prepended to all paths. prefix
// may be absolute.
func (fs *FS) Write(ctx context.Context, prefix string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(writeConcurrency)

	for _, f := range fs.asFiles() {
		f := f
		g.Go(func() error {
			path := filepath.Join(prefix, f.RelativePath)
			if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
				return fmt.Errorf("%s: failed to ensure parent directory exists: %w", path, err)
			}
			if err := os.WriteFile(path, f.Data, 0644); err != nil {
				return fmt.Errorf("%s: error while writing file: %w", path, err)
			}
			return nil
		})
	}

	return g.Wait()
}
