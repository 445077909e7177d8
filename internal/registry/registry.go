// Package registry manages on-disk versions of trained classifier
// artifacts. Each version is an immutable directory; "current" is a single
// pointer file swapped via rename, so readers see either the old or the new
// version and never a partial write.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/classifier"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
)

const (
	currentFile  = "CURRENT"
	artifactFile = "model.json"
)

// Registry is a directory of artifact versions plus a CURRENT pointer file.
// The current version is cached in an atomic pointer so the read path never
// touches disk or a lock.
type Registry struct {
	current atomic.Pointer[string]
	root    string
}

// New opens (creating if needed) a registry rooted at dir and primes the
// current-version cache from disk.
func New(dir string) (*Registry, error) {
	if dir == "" {
		return nil, fmt.Errorf("registry: %w: empty root dir", common.ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	r := &Registry{root: dir}
	if v, err := r.readCurrentFromDisk(); err == nil {
		r.current.Store(&v)
	}
	return r, nil
}

// Root returns the registry's root directory.
func (r *Registry) Root() string {
	return r.root
}

// Put writes an artifact as a new version. The artifact file is written to
// a temp file and renamed into place so a crashed write never leaves a
// half-written version behind. Existing versions are never overwritten.
func (r *Registry) Put(a *classifier.Artifact) error {
	if a == nil {
		return common.ErrArtifactCorrupt
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("put: %w: %v", common.ErrArtifactCorrupt, err)
	}
	if err := validateVersion(a.Version); err != nil {
		return err
	}

	dir := filepath.Join(r.root, a.Version)
	if _, err := os.Stat(filepath.Join(dir, artifactFile)); err == nil {
		return fmt.Errorf("version %s already exists", a.Version)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create version directory: %w", err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	return atomicWrite(filepath.Join(dir, artifactFile), data)
}

// Promote makes version the current one. The artifact is fully loaded and
// validated first; a corrupt or missing artifact rejects the promotion and
// leaves the previous current version untouched. The load is bounded by ctx.
func (r *Registry) Promote(ctx context.Context, version string) error {
	if err := validateVersion(version); err != nil {
		return err
	}
	if _, err := r.Load(ctx, version); err != nil {
		return fmt.Errorf("promote %s rejected: %w", version, err)
	}

	if err := atomicWrite(filepath.Join(r.root, currentFile), []byte(version+"\n")); err != nil {
		return fmt.Errorf("failed to update current pointer: %w", err)
	}
	r.current.Store(&version)
	return nil
}

// Current returns the current version. Reads come from the atomic cache and
// are safe to call concurrently with Promote from any number of readers.
func (r *Registry) Current() (string, error) {
	if v := r.current.Load(); v != nil && *v != "" {
		return *v, nil
	}
	return "", common.ErrNoCurrentModel
}

// Refresh re-reads the CURRENT pointer from disk into the cache and returns
// the version. It is how out-of-process promotions (the offline training
// pipeline writing the pointer file directly) become visible.
func (r *Registry) Refresh() (string, error) {
	v, err := r.readCurrentFromDisk()
	if err != nil {
		return "", err
	}
	r.current.Store(&v)
	return v, nil
}

// List returns all stored versions in lexical order.
func (r *Registry) List() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry directory: %w", err)
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.root, e.Name(), artifactFile)); err == nil {
			versions = append(versions, e.Name())
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// Load reads and validates one version's artifact. The read runs in a
// goroutine so a slow disk or network mount cannot outlive ctx.
func (r *Registry) Load(ctx context.Context, version string) (*classifier.Artifact, error) {
	if err := validateVersion(version); err != nil {
		return nil, err
	}

	type result struct {
		artifact *classifier.Artifact
		err      error
	}
	ch := make(chan result, 1)
	go func() {
		ch <- func() result {
			data, err := os.ReadFile(filepath.Join(r.root, version, artifactFile))
			if err != nil {
				if os.IsNotExist(err) {
					return result{err: fmt.Errorf("load %s: %w", version, common.ErrUnknownVersion)}
				}
				return result{err: fmt.Errorf("load %s: %w: %v", version, common.ErrArtifactCorrupt, err)}
			}
			var a classifier.Artifact
			if err := json.Unmarshal(data, &a); err != nil {
				return result{err: fmt.Errorf("load %s: %w: %v", version, common.ErrArtifactCorrupt, err)}
			}
			if err := a.Validate(); err != nil {
				return result{err: fmt.Errorf("load %s: %w: %v", version, common.ErrArtifactCorrupt, err)}
			}
			return result{artifact: &a}
		}()
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load %s: %w", version, ctx.Err())
	case res := <-ch:
		return res.artifact, res.err
	}
}

// LoadCurrent loads the artifact the CURRENT pointer names.
func (r *Registry) LoadCurrent(ctx context.Context) (*classifier.Artifact, error) {
	version, err := r.Current()
	if err != nil {
		return nil, err
	}
	return r.Load(ctx, version)
}

func (r *Registry) readCurrentFromDisk() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.root, currentFile))
	if err != nil {
		return "", common.ErrNoCurrentModel
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", common.ErrNoCurrentModel
	}
	return v, nil
}

// atomicWrite writes data to a temp file in the target's directory and
// renames it into place. Rename within a directory is atomic on POSIX.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename into place: %w", err)
	}
	return nil
}

func validateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("version is required")
	}
	if strings.ContainsAny(version, "/\\") || version == "." || version == ".." {
		return fmt.Errorf("invalid version %q", version)
	}
	return nil
}
