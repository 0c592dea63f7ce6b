// Package cursor implements the cursor file: the single on-disk pointer
// to the commit currently checked out.
package cursor

import (
	"os"
	"path/filepath"

	"github.com/Who23/ink/pkg/commit"
	"github.com/Who23/ink/pkg/common/err"
	"github.com/Who23/ink/pkg/common/fileops"
	"github.com/Who23/ink/pkg/digest"
)

const pkgName = "cursor"

const fileName = "cursor"
const fileMode = 0644

func path(inkRoot string) string {
	return filepath.Join(inkRoot, fileName)
}

// Init creates an empty cursor file under inkRoot.
func Init(inkRoot string) error {
	if writeErr := fileops.AtomicWrite(path(inkRoot), nil, fileMode); writeErr != nil {
		return err.New(pkgName, err.CodeIO, "init", "create cursor file", writeErr)
	}
	return nil
}

// Set points the cursor at c, writing the 32 raw bytes of its digest.
func Set(inkRoot string, c commit.Commit) error {
	if writeErr := fileops.AtomicWrite(path(inkRoot), c.Digest[:], fileMode); writeErr != nil {
		return err.New(pkgName, err.CodeIO, "set", "write cursor file", writeErr)
	}
	return nil
}

// Get reads the cursor and resolves it to the commit it names.
func Get(inkRoot string) (commit.Commit, error) {
	data, readErr := os.ReadFile(path(inkRoot))
	if readErr != nil {
		return commit.Commit{}, err.New(pkgName, err.CodeIO, "get", "read cursor file", readErr)
	}
	if len(data) != digest.Size {
		return commit.Commit{}, err.New(pkgName, err.CodeIntegrity, "get",
			"cursor file is not exactly 32 bytes", nil).WithContext("length", len(data))
	}

	d := digest.FromSum(data)
	return commit.From(inkRoot, d)
}
