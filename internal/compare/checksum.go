package compare

import (
	"context"
	"crypto/md5" //nolint:gosec // content identity check, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// chunkSize is the read size used while hashing.
const chunkSize = 4096

// FileMD5 returns the hex MD5 digest of the file at path, reading it in
// fixed-size chunks. It stops early when ctx is cancelled.
func FileMD5(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrChecksum, err)
	}
	defer f.Close()

	h := md5.New() //nolint:gosec // see import
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := f.Read(buf)
		h.Write(buf[:n])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrChecksum, path, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Checksums hashes both files concurrently.
func Checksums(ctx context.Context, basePath, testPath string) (base, test string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = FileMD5(gctx, basePath)
		return err
	})
	g.Go(func() error {
		var err error
		test, err = FileMD5(gctx, testPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return base, test, nil
}
