package persist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/entities/internal/entity"
)

// fileMode is applied to newly created destination files. An existing
// destination keeps its own permission bits.
const fileMode = 0o644

// writeFileAtomic writes to a temporary file next to path and renames it over
// path once write succeeds. On any failure the temporary file is removed and
// path keeps its previous contents.
func writeFileAtomic(ctx context.Context, op, path string, write func(io.Writer) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("operation cancelled: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return entity.IOError(op, path, err)
	}

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return wrapFileError(op, path, err)
	}
	if err := bw.Flush(); err != nil {
		return entity.IOError(op, path, err)
	}
	if err := tmp.Close(); err != nil {
		return entity.IOError(op, path, err)
	}
	if err := os.Chmod(tmp.Name(), destMode(path)); err != nil {
		return entity.IOError(op, path, err)
	}

	// A cancellation that arrives while encoding must not replace the destination.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("operation cancelled: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return entity.IOError(op, path, err)
	}
	committed = true
	return nil
}

// destMode returns the permission bits of the file being replaced, or
// fileMode when there is none.
func destMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fileMode
	}
	return info.Mode().Perm()
}

// readFile opens path and hands it to read, closing it on every path.
func readFile(ctx context.Context, op, path string, read func(io.Reader) ([]entity.Entity, error)) ([]entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("operation cancelled: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, entity.IOError(op, path, err)
	}
	defer f.Close()

	out, err := read(bufio.NewReader(f))
	if err != nil {
		return nil, wrapFileError(op, path, err)
	}
	return out, nil
}

// wrapFileError attaches path to codec errors, and classifies anything that
// is not already an OpError as an I/O failure.
func wrapFileError(op, path string, err error) error {
	var oe *entity.OpError
	if errors.As(err, &oe) {
		if oe.Path == "" {
			oe.Path = path
		}
		return err
	}
	return entity.IOError(op, path, err)
}
