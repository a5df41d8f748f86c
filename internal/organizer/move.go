package organizer

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"mediasort/internal/fileutil"
)

// rename is swapped in tests to simulate cross-device moves.
var rename = os.Rename

// moveFile renames src to dst, copying across filesystems when rename reports
// EXDEV. On failure src is left in place and no partial dst remains.
func moveFile(src, dst string) error {
	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return err
	}

	if err := fileutil.CopyFileExclusive(src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}
