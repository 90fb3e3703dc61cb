package backup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const extension = "zst"

// Compress compresses a file using zstd into <filepath>.zst.
func Compress(filepath string) (string, error) {
	in, err := os.Open(filepath)
	if err != nil {
		return "", fmt.Errorf("open file: %s", err)
	}
	defer func() { _ = in.Close() }()

	newFilepath := fmt.Sprintf("%s.%s", filepath, extension)
	out, err := os.OpenFile(newFilepath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.Errorf("open new file: %s", err)
	}
	defer func() { _ = out.Close() }()

	zw, err := zstd.NewWriter(out)
	if err != nil {
		return "", fmt.Errorf("new writer: %s", err)
	}
	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		return "", errors.Errorf("copy to writer: %s", err)
	}
	if err := zw.Close(); err != nil {
		return "", errors.Errorf("closing writer: %s", err)
	}
	if err := out.Close(); err != nil {
		return "", errors.Errorf("closing file: %s", err)
	}
	return newFilepath, nil
}

// Decompress restores a .zst file next to it, without the extension.
func Decompress(filepath string) (string, error) {
	if !strings.HasSuffix(filepath, "."+extension) {
		return "", errors.Errorf("%s is not a .%s file", filepath, extension)
	}
	in, err := os.Open(filepath)
	if err != nil {
		return "", fmt.Errorf("open file: %s", err)
	}
	defer func() { _ = in.Close() }()

	zr, err := zstd.NewReader(in)
	if err != nil {
		return "", fmt.Errorf("new reader: %s", err)
	}
	defer zr.Close()

	newFilepath := strings.TrimSuffix(filepath, "."+extension)
	out, err := os.OpenFile(newFilepath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.Errorf("open new file: %s", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, zr); err != nil {
		return "", errors.Errorf("copy from reader: %s", err)
	}
	if err := out.Close(); err != nil {
		return "", errors.Errorf("closing file: %s", err)
	}
	return newFilepath, nil
}
