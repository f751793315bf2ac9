package state

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sys/unix"
)

// Number of leading file bytes covered by a fingerprint at most
const FingerprintSize = 1024

const fingerprintHexLen = blake2b.Size256 * 2

// Inode and size of the file currently at path
func Identify(path string) (id FileID, err error) {
	var stat unix.Stat_t
	err = unix.Stat(path, &stat)
	if err != nil {
		err = fmt.Errorf("unable to stat '%s': %w", path, err)
		return
	}
	id = FileID{
		Inode: uint64(stat.Ino),
		Size:  stat.Size,
	}
	return
}

// Inode of an already open file
func IdentifyOpen(file *os.File) (id FileID, err error) {
	var stat unix.Stat_t
	err = unix.Fstat(int(file.Fd()), &stat)
	if err != nil {
		err = fmt.Errorf("unable to stat '%s': %w", file.Name(), err)
		return
	}
	id = FileID{
		Inode: uint64(stat.Ino),
		Size:  stat.Size,
	}
	return
}

// Hex BLAKE2b-256 of the first min(FingerprintSize, limit) bytes of the file.
// Bytes already read never change for an append-only file, so the hash survives growth.
func Fingerprint(path string, limit int64) (fingerprint string, err error) {
	if limit > FingerprintSize {
		limit = FingerprintSize
	}
	if limit < 0 {
		limit = 0
	}

	file, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("unable to open '%s' for fingerprint: %w", path, err)
		return
	}
	defer file.Close()

	head := make([]byte, limit)
	n, err := io.ReadFull(file, head)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	} else if err != nil {
		err = fmt.Errorf("unable to read '%s' for fingerprint: %w", path, err)
		return
	}

	sum := blake2b.Sum256(head[:n])
	fingerprint = hex.EncodeToString(sum[:])
	return
}
