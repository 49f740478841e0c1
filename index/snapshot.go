//  Copyright (c) 2024 Couchbase, Inc.
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the
//  License. You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
//  Unless required by applicable law or agreed to in writing,
//  software distributed under the License is distributed on an "AS
//  IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
//  express or implied. See the License for the specific language
//  governing permissions and limitations under the License.

package index

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// Snapshot commits w, flushes the directory, takes the writer lock
// (§5), and streams a tar-over-zstd archive of the directory to an
// in-memory buffer. Fails with ErrNotPersisted for an in-memory store.
func (s *Store) Snapshot(w *Writer) ([]byte, error) {
	if s.dir == "" {
		return nil, ErrNotPersisted
	}

	s.log.Info("committing index before snapshot", zap.String("dir", s.dir))
	if err := w.Commit(); err != nil {
		return nil, err
	}

	// Reuse the writer mutex as the directory lock: bleve exposes no
	// acquirable lock primitive equivalent to tantivy's
	// INDEX_WRITER_LOCK, so this is the lock this port actually has
	// (see DESIGN.md).
	s.writerMu.Lock()
	defer s.writerMu.Unlock()

	var out bytes.Buffer
	enc, err := zstd.NewWriter(&out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, &IOError{Err: err}
	}

	tw := tar.NewWriter(enc)
	if err := archiveDir(tw, s.dir); err != nil {
		tw.Close()
		enc.Close()
		return nil, &IOError{Err: err}
	}
	if err := tw.Close(); err != nil {
		enc.Close()
		return nil, &IOError{Err: err}
	}
	// The encoder must be closed (its footer written) before the
	// buffer is read - the Go analogue of the original's
	// enc.auto_finish() discipline.
	if err := enc.Close(); err != nil {
		return nil, &IOError{Err: err}
	}

	s.mx.snapshots.Inc()
	s.log.Info("snapshot complete", zap.String("size", humanize.Bytes(uint64(out.Len()))))
	return out.Bytes(), nil
}

// Restore requires cfg.Dir to be set; it zstd-decodes and untars data
// into that directory, then opens it as New.
func Restore(cfg Config, data []byte, plugin Plugin) (*Store, error) {
	if cfg.Dir == "" {
		return nil, ErrOpen
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, &IOError{Err: err}
	}
	if err := unpack(cfg.Dir, data); err != nil {
		return nil, &IOError{Err: err}
	}
	return New(cfg, plugin)
}

// Reload unpacks data into an existing store's directory in place. Not
// atomic from a concurrent reader's perspective - serialize against
// live searches at the caller (spec.md §5).
func (s *Store) Reload(data []byte) error {
	if s.dir == "" {
		return nil
	}
	return unpack(s.dir, data)
}

func unpack(dir string, data []byte) error {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer dec.Close()

	tr := tar.NewReader(dec)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target := filepath.Join(dir, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			// symlinks and other special entries have no place in a
			// bleve index directory; skip them defensively.
		}
	}
}

func archiveDir(tw *tar.Writer, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
}
