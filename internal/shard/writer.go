package shard

import (
	"hash"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/codec"
	"github.com/gfmtools/gfm/internal/payload"
)

// Writer owns the numData+numParity shard files and the manifest for one
// encode session.
type Writer struct {
	numData    int
	numParity  int
	files      []*os.File
	hashers    []hash.Hash
	streamHash hash.Hash
	manifest   *manifestWriter
	names      []string
}

// Create opens fresh shard files STUB00..STUB(N+M-1) plus STUB.md5 and
// writes each shard's header: the embedded payload, the per-shard
// signature, and zero padding to the next block boundary.
func Create(stub string, numData, numParity int) (*Writer, error) {
	total := numData + numParity
	manifest, err := createManifest(stub)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		numData:    numData,
		numParity:  numParity,
		files:      make([]*os.File, total),
		hashers:    make([]hash.Hash, total),
		streamHash: newDigest(),
		manifest:   manifest,
		names:      make([]string, total),
	}

	sig := Signature{
		NumData:      byte(numData),
		NumParity:    byte(numParity),
		BlockSizePo2: codec.BlockSizePo2,
	}
	for i := 0; i < total; i++ {
		name := Filename(stub, i)
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			w.abort()
			return nil, errors.Wrapf(err, "opening shard %s", name)
		}
		w.files[i] = f
		w.names[i] = name
		w.hashers[i] = newDigest()

		sig.FileNum = byte(i)
		mw := io.MultiWriter(f, w.hashers[i])
		if err := writeHeader(mw, payload.Blob, sig); err != nil {
			w.abort()
			return nil, errors.Wrapf(err, "writing header for %s", name)
		}
	}
	return w, nil
}

// WriteStripe writes one B-byte block to each of the N+M shard files and
// folds each block into that shard's running digest. len(rows) must equal
// numData+numParity and every row must be exactly codec.BlockSize bytes.
func (w *Writer) WriteStripe(rows [][]byte) error {
	for i, f := range w.files {
		if _, err := f.Write(rows[i]); err != nil {
			return errors.Wrapf(err, "writing block to %s", w.names[i])
		}
		w.hashers[i].Write(rows[i])
	}
	return nil
}

// UpdateStreamDigest folds numRead bytes of the original, unpadded input
// stream into the manifest's "-" entry. Only the genuine bytes read are
// digested; the padding descriptor never is.
func (w *Writer) UpdateStreamDigest(b []byte) {
	w.streamHash.Write(b)
}

// Close finalizes every shard file and writes the manifest: one line per
// shard in ascending file-number order, then a final line for the input
// stream keyed by "-".
func (w *Writer) Close() error {
	for i, f := range w.files {
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "closing %s", w.names[i])
		}
		if err := w.manifest.writeDigest(w.names[i], w.hashers[i]); err != nil {
			return err
		}
	}
	if err := w.manifest.writeDigest("-", w.streamHash); err != nil {
		return err
	}
	return w.manifest.close()
}

// abort closes whatever was opened so far after a failure partway through
// Create; it does not attempt to remove the partial files.
func (w *Writer) abort() {
	for _, f := range w.files {
		if f != nil {
			f.Close()
		}
	}
	if w.manifest != nil {
		w.manifest.close()
	}
}
