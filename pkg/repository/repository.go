// Package repository orchestrates the commit lifecycle — init, commit,
// checkout, and prefix resolution — over the store, commit, graph, and
// cursor layers beneath it.
package repository

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Who23/ink/pkg/commit"
	"github.com/Who23/ink/pkg/common/err"
	"github.com/Who23/ink/pkg/common/fileops"
	"github.com/Who23/ink/pkg/common/logger"
	"github.com/Who23/ink/pkg/config"
	"github.com/Who23/ink/pkg/cursor"
	"github.com/Who23/ink/pkg/digest"
	"github.com/Who23/ink/pkg/entry"
	"github.com/Who23/ink/pkg/graph"
	"github.com/Who23/ink/pkg/repository/ignore"
	"github.com/Who23/ink/pkg/repository/inkpath"
	"github.com/Who23/ink/pkg/store"
)

const pkgName = "repository"

const graphFileName = "graph"

func graphPath(inkRoot inkpath.InkRoot) string {
	return inkRoot.Join(graphFileName)
}

// Init creates a new repository rooted at projectDir: the .ink directory
// and its commit/ and data/ subdirectories, the empty commit, the graph
// containing only its node, and a cursor pointing at it.
func Init(projectDir string) error {
	root, rootErr := inkpath.NewProjectRoot(projectDir)
	if rootErr != nil {
		return err.Wrap(rootErr, pkgName, "init")
	}
	inkRoot := root.InkRoot()

	exists, existsErr := fileops.IsDirectory(inkRoot.String())
	if existsErr != nil {
		return err.New(pkgName, err.CodeIO, "init", "check for existing repository", existsErr)
	}
	if exists {
		logger.Warn("init rejected, repository already initialized", "path", inkRoot.String())
		return err.New(pkgName, err.CodeWorkflow, "init", "repository already initialized", nil).
			WithContext("path", inkRoot.String())
	}

	if mkErr := fileops.EnsureDir(inkRoot.Join("commit")); mkErr != nil {
		return err.New(pkgName, err.CodeIO, "init", "create commit directory", mkErr)
	}

	s := newStore(inkRoot, loadTypedConfig(inkRoot))
	if initErr := s.Init(); initErr != nil {
		return err.Wrap(initErr, pkgName, "init")
	}

	empty, emptyErr := commit.New(s, nil, commit.Now(), inkRoot.String())
	if emptyErr != nil {
		return err.Wrap(emptyErr, pkgName, "init")
	}
	if writeErr := empty.Write(inkRoot.String()); writeErr != nil {
		return err.Wrap(writeErr, pkgName, "init")
	}
	logger.Debug("wrote empty commit record", "digest", empty.Digest.Hex())

	if cursorErr := cursor.Init(inkRoot.String()); cursorErr != nil {
		return err.Wrap(cursorErr, pkgName, "init")
	}
	if setErr := cursor.Set(inkRoot.String(), empty); setErr != nil {
		return err.Wrap(setErr, pkgName, "init")
	}

	g := graph.New()
	if addErr := g.AddNode(empty.Digest); addErr != nil {
		return err.Wrap(addErr, pkgName, "init")
	}
	if writeErr := g.Write(graphPath(inkRoot)); writeErr != nil {
		return err.Wrap(writeErr, pkgName, "init")
	}

	logger.Info("initialized repository", "path", inkRoot.String(), "commit", empty.Digest.Hex())
	return nil
}

// Commit builds a commit from the working tree enclosing startDir, writes
// it, links it into the graph as a child of the current cursor commit, and
// moves the cursor to it.
func Commit(startDir string) (commit.Commit, error) {
	root, inkRoot, locateErr := locate(startDir)
	if locateErr != nil {
		return commit.Commit{}, locateErr
	}

	s := newStore(inkRoot, loadTypedConfig(inkRoot))
	paths, collectErr := collectWorkingTreePaths(root, inkRoot)
	if collectErr != nil {
		return commit.Commit{}, err.Wrap(collectErr, pkgName, "commit")
	}

	newCommit, newErr := commit.New(s, paths, commit.Now(), inkRoot.String())
	if newErr != nil {
		return commit.Commit{}, err.Wrap(newErr, pkgName, "commit")
	}
	if writeErr := newCommit.Write(inkRoot.String()); writeErr != nil {
		return commit.Commit{}, err.Wrap(writeErr, pkgName, "commit")
	}
	logger.Debug("wrote commit record", "digest", newCommit.Digest.Hex(), "files", len(newCommit.Entries))

	g, loadErr := graph.Load(graphPath(inkRoot))
	if loadErr != nil {
		return commit.Commit{}, err.Wrap(loadErr, pkgName, "commit")
	}
	current, curErr := cursor.Get(inkRoot.String())
	if curErr != nil {
		return commit.Commit{}, err.Wrap(curErr, pkgName, "commit")
	}

	// Identical content committed within the same timestamp second collapses
	// to the same digest (see pkg/commit.New); re-linking an already-present
	// node would be a spurious graph-invariant failure, so this is a no-op.
	if !g.Has(newCommit.Digest) {
		if addErr := g.AddNode(newCommit.Digest); addErr != nil {
			return commit.Commit{}, err.Wrap(addErr, pkgName, "commit")
		}
		if edgeErr := g.AddEdge(current.Digest, newCommit.Digest); edgeErr != nil {
			return commit.Commit{}, err.Wrap(edgeErr, pkgName, "commit")
		}
		if writeErr := g.Write(graphPath(inkRoot)); writeErr != nil {
			return commit.Commit{}, err.Wrap(writeErr, pkgName, "commit")
		}
	}

	if setErr := cursor.Set(inkRoot.String(), newCommit); setErr != nil {
		return commit.Commit{}, err.Wrap(setErr, pkgName, "commit")
	}

	logger.Info("committed", "digest", newCommit.Digest.Hex(), "files", len(newCommit.Entries))
	return newCommit, nil
}

// Go checks the working tree out to target. Fails without mutating
// anything if the working tree differs from the currently checked-out
// commit.
func Go(startDir string, target digest.Digest) error {
	root, inkRoot, locateErr := locate(startDir)
	if locateErr != nil {
		return locateErr
	}

	typed := loadTypedConfig(inkRoot)
	s := newStore(inkRoot, typed)
	current, curErr := cursor.Get(inkRoot.String())
	if curErr != nil {
		return err.Wrap(curErr, pkgName, "go")
	}

	paths, collectErr := collectWorkingTreePaths(root, inkRoot)
	if collectErr != nil {
		return err.Wrap(collectErr, pkgName, "go")
	}
	working, workingErr := commit.New(s, paths, commit.Now(), inkRoot.String())
	if workingErr != nil {
		return err.Wrap(workingErr, pkgName, "go")
	}
	if dirty := current.Diff(working); !dirty.IsEmpty() {
		logger.Warn("go rejected, working directory is dirty", "current", current.Digest.Hex())
		return err.New(pkgName, err.CodeWorkflow, "go", "working directory is dirty", nil)
	}

	targetCommit, targetErr := commit.From(inkRoot.String(), target)
	if targetErr != nil {
		logger.Error("go failed to load target commit", "target", target.Hex(), "error", targetErr)
		return err.Wrap(targetErr, pkgName, "go")
	}

	preserveMode := typed.PreserveMode()

	for _, edit := range current.Diff(targetCommit).Edits {
		if applyErr := applyCheckoutEdit(s, root, edit, preserveMode); applyErr != nil {
			return err.Wrap(applyErr, pkgName, "go")
		}
	}

	if setErr := cursor.Set(inkRoot.String(), targetCommit); setErr != nil {
		return err.Wrap(setErr, pkgName, "go")
	}

	logger.Info("checked out", "from", current.Digest.Hex(), "to", targetCommit.Digest.Hex())
	return nil
}

// loadTypedConfig loads the config hierarchy rooted at inkRoot and wraps it
// for typed access. A load failure leaves the manager's entries empty, so
// every TypedConfig getter still returns its documented default rather than
// erroring — config is ambient and must never block a repository operation.
func loadTypedConfig(inkRoot inkpath.InkRoot) *config.TypedConfig {
	mgr := config.NewManager(inkRoot.String())
	_ = mgr.Load(context.Background())
	return config.NewTypedConfig(mgr)
}

// newStore returns a blob store rooted at inkRoot, with its deflate
// compression level set from store.compression_level.
func newStore(inkRoot inkpath.InkRoot, typed *config.TypedConfig) *store.Store {
	s := store.New(inkRoot.String())
	s.SetCompressionLevel(typed.CompressionLevel())
	return s
}

func applyCheckoutEdit(s *store.Store, root inkpath.ProjectRoot, edit commit.CommitEdit, preserveMode bool) error {
	switch edit.Kind {
	case commit.Insert:
		return writeCheckoutEntry(s, root, edit.Modified, preserveMode)
	case commit.Delete:
		return fileops.SafeRemove(root.Join(inkpath.RelativePath(edit.Original.Path)))
	case commit.Modify:
		if removeErr := fileops.SafeRemove(root.Join(inkpath.RelativePath(edit.Original.Path))); removeErr != nil {
			return removeErr
		}
		return writeCheckoutEntry(s, root, edit.Modified, preserveMode)
	default:
		return err.New(pkgName, err.CodeWorkflow, "go", "unknown edit kind", nil)
	}
}

// writeCheckoutEntry materialises e under root. When preserveMode is
// false, the stored permission bits are overwritten with the default
// 0644 after write, matching checkout.preserve_mode's off state.
func writeCheckoutEntry(s *store.Store, root inkpath.ProjectRoot, e entry.Entry, preserveMode bool) error {
	if writeErr := e.WriteTo(s, root.String()); writeErr != nil {
		return writeErr
	}
	if preserveMode {
		return nil
	}
	fullPath := root.Join(inkpath.RelativePath(e.Path))
	if chmodErr := os.Chmod(fullPath, 0644); chmodErr != nil {
		return err.New(pkgName, err.CodeIO, "go", "reset permissions to default", chmodErr).
			WithContext("path", e.Path)
	}
	return nil
}

// CommitFromPrefix resolves a hex digest prefix to the single commit it
// identifies, searching the commit graph enclosing startDir.
func CommitFromPrefix(startDir, prefix string) (digest.Digest, error) {
	_, inkRoot, locateErr := locate(startDir)
	if locateErr != nil {
		return digest.Digest{}, locateErr
	}

	g, loadErr := graph.Load(graphPath(inkRoot))
	if loadErr != nil {
		return digest.Digest{}, err.Wrap(loadErr, pkgName, "commit_from_prefix")
	}

	d, resolveErr := commit.HashFromPrefix(g.CommitHashes(), prefix)
	if resolveErr != nil {
		logger.Warn("commit prefix did not resolve", "prefix", prefix, "error", resolveErr)
		return digest.Digest{}, err.Wrap(resolveErr, pkgName, "commit_from_prefix")
	}
	return d, nil
}

func locate(startDir string) (inkpath.ProjectRoot, inkpath.InkRoot, error) {
	root, ok, findErr := inkpath.Find(startDir)
	if findErr != nil {
		return "", "", err.New(pkgName, err.CodeIO, "locate", "search for .ink directory", findErr)
	}
	if !ok {
		return "", "", err.New(pkgName, err.CodeUninitialized, "locate", "no .ink ancestor directory found", nil)
	}
	return root, root.InkRoot(), nil
}

const inkignoreFileName = ".inkignore"

// loadIgnoreSet builds the pattern set governing which working-tree paths
// are excluded from commits: the baked-in defaults, plus a repository-local
// .inkignore file at root if one exists.
func loadIgnoreSet(root inkpath.ProjectRoot) (*ignore.PatternSet, error) {
	set := ignore.NewPatternSet()
	set.AddPatternsFromText(ignore.DefaultIgnore, "")

	inkignorePath := root.Join(inkpath.RelativePath(inkignoreFileName))
	local, readErr := os.ReadFile(inkignorePath)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return set, nil
		}
		return nil, err.New(pkgName, err.CodeIO, "load_ignore_set", "read .inkignore", readErr).
			WithContext("path", inkignorePath)
	}
	set.AddPatternsFromText(string(local), inkignoreFileName)
	return set, nil
}

// collectWorkingTreePaths walks root, returning every regular file's
// absolute path except those inside inkRoot or matched by the repository's
// ignore patterns.
func collectWorkingTreePaths(root inkpath.ProjectRoot, inkRoot inkpath.InkRoot) ([]string, error) {
	patterns, loadErr := loadIgnoreSet(root)
	if loadErr != nil {
		return nil, err.Wrap(loadErr, pkgName, "collect_working_tree_paths")
	}

	var paths []string
	walkErr := filepath.Walk(root.String(), func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root.String() {
			return nil
		}

		rel, relErr := filepath.Rel(root.String(), path)
		if relErr != nil {
			return relErr
		}

		if info.IsDir() {
			if path == inkRoot.String() {
				return filepath.SkipDir
			}
			if patterns.IsIgnored(rel, true, "") {
				return filepath.SkipDir
			}
			return nil
		}

		if patterns.IsIgnored(rel, false, "") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, err.New(pkgName, err.CodeIO, "collect_working_tree_paths", "walk working tree", walkErr)
	}
	return paths, nil
}
