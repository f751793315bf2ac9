// Persistence of source read positions across restarts
package state

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const stateFileSuffix = "_position"

// Creates a store rooted at dir. The directory is created when missing.
func NewStore(dir string) (store *Store, err error) {
	if dir == "" {
		err = fmt.Errorf("state directory cannot be empty")
		return
	}

	err = os.MkdirAll(dir, 0700)
	if err != nil {
		err = fmt.Errorf("failed to create state directory '%s': %w", dir, err)
		return
	}

	store = &Store{dir: dir}
	return
}

// State file location for a source. The absolute source path is encoded into the name.
func (store *Store) Path(sourcePath string) (stateFile string) {
	absPath, err := filepath.Abs(sourcePath)
	if err != nil {
		absPath = sourcePath
	}
	name := base64.RawURLEncoding.EncodeToString([]byte(absPath)) + stateFileSuffix
	stateFile = filepath.Join(store.dir, name)
	return
}

// Reads the raw persisted record. found is false when no usable record exists.
// Malformed state files are truncated.
func (store *Store) Read(sourcePath string) (record Record, found bool, err error) {
	stateFile := store.Path(sourcePath)

	data, err := os.ReadFile(stateFile)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
		return
	} else if err != nil {
		err = fmt.Errorf("unable to read state file '%s': %w", stateFile, err)
		return
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return
	}

	record, err = parseRecord(content)
	if err != nil {
		truncErr := os.Truncate(stateFile, 0)
		if truncErr != nil {
			err = fmt.Errorf("failed to remove invalid state in '%s': %w", stateFile, truncErr)
			return
		}
		err = nil
		return
	}
	found = true
	return
}

// Returns the offset to resume the source from.
// The offset is 0 when there is no state, when the file at sourcePath has a different inode,
// or when its leading bytes no longer match the stored fingerprint. It never exceeds the file size.
func (store *Store) Load(sourcePath string) (offset int64, err error) {
	record, found, err := store.Read(sourcePath)
	if err != nil || !found {
		return
	}

	id, err := Identify(sourcePath)
	if err != nil {
		return
	}
	if id.Inode != record.Inode {
		return
	}

	// Same inode but shorter than what was already read: truncated, start over
	if record.Offset > id.Size {
		return
	}

	fingerprint, err := Fingerprint(sourcePath, record.Offset)
	if err != nil {
		return
	}
	if fingerprint != record.Fingerprint {
		return
	}

	offset = record.Offset
	return
}

// Persists offset for the file currently at sourcePath
func (store *Store) Save(sourcePath string, offset int64) (err error) {
	if offset < 0 {
		err = fmt.Errorf("refusing to save negative offset %d for '%s'", offset, sourcePath)
		return
	}

	id, err := Identify(sourcePath)
	if err != nil {
		return
	}
	fingerprint, err := Fingerprint(sourcePath, offset)
	if err != nil {
		return
	}

	record := Record{
		Inode:       id.Inode,
		Offset:      offset,
		Fingerprint: fingerprint,
	}
	err = store.write(sourcePath, record)
	return
}

// Removes any persisted position for the source
func (store *Store) Reset(sourcePath string) (err error) {
	err = os.Remove(store.Path(sourcePath))
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	} else if err != nil {
		err = fmt.Errorf("failed to remove state for '%s': %w", sourcePath, err)
	}
	return
}

// Writes to a temporary file then renames it over the state file
func (store *Store) write(sourcePath string, record Record) (err error) {
	stateFile := store.Path(sourcePath)

	tmp, err := os.CreateTemp(store.dir, filepath.Base(stateFile)+".*")
	if err != nil {
		err = fmt.Errorf("failed to create temporary state file: %w", err)
		return
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	_, err = fmt.Fprintf(tmp, "%d %d %s", record.Inode, record.Offset, record.Fingerprint)
	if err != nil {
		tmp.Close()
		err = fmt.Errorf("failed to write position to state file: %w", err)
		return
	}
	err = tmp.Close()
	if err != nil {
		err = fmt.Errorf("failed to close temporary state file: %w", err)
		return
	}

	err = os.Rename(tmpName, stateFile)
	if err != nil {
		err = fmt.Errorf("failed to replace state file '%s': %w", stateFile, err)
		return
	}
	return
}

func parseRecord(content string) (record Record, err error) {
	parts := strings.Fields(content)
	if len(parts) != 3 {
		err = fmt.Errorf("expected 3 fields in state, found %d", len(parts))
		return
	}

	record.Inode, err = strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		err = fmt.Errorf("invalid inode: %w", err)
		return
	}
	record.Offset, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil || record.Offset < 0 {
		err = fmt.Errorf("invalid offset %q", parts[1])
		return
	}
	if len(parts[2]) != fingerprintHexLen {
		err = fmt.Errorf("invalid fingerprint length %d", len(parts[2]))
		return
	}
	record.Fingerprint = parts[2]
	return
}
