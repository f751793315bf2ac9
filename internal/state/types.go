package state

// Directory holding one position file per source
type Store struct {
	dir string
}

// Persisted read position of a single source file
type Record struct {
	Inode       uint64
	Offset      int64
	Fingerprint string // hex BLAKE2b-256 of the first min(1KiB, Offset) bytes
}

// Identity of the file currently at a path
type FileID struct {
	Inode uint64
	Size  int64
}
