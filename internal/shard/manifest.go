package shard

import (
	"crypto/md5"
	"fmt"
	"hash"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// manifestWriter accumulates one MD5 line per shard plus a final line for
// the original input stream.
type manifestWriter struct {
	file *os.File
}

func createManifest(stub string) (*manifestWriter, error) {
	name := stub + ".md5"
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening manifest %s", name)
	}
	return &manifestWriter{file: f}, nil
}

// writeDigest appends "<32 lowercase hex chars>  <basename>\n" for the
// digest accumulated so far in h. name is passed through filepath.Base so
// a caller-supplied path never leaks directory components into the
// manifest.
func (m *manifestWriter) writeDigest(name string, h hash.Hash) error {
	sum := h.Sum(nil)
	_, err := fmt.Fprintf(m.file, "%x  %s\n", sum, filepath.Base(name))
	return errors.Wrapf(err, "writing manifest entry for %s", name)
}

func (m *manifestWriter) close() error {
	return errors.Wrap(m.file.Close(), "closing manifest")
}

// newDigest is a small indirection so the rest of the package names the
// hash algorithm once; the manifest format is pinned to MD5 regardless of
// what future callers might prefer.
func newDigest() hash.Hash { return md5.New() }
