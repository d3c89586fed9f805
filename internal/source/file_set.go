package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

// File is a single registered source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	lineIdx []uint32 // byte offsets of line starts
}

// FileSet manages a collection of source files and resolves spans to
// line/column positions.
type FileSet struct {
	files []File // index 0 reserved for NoFileID
	index map[string]FileID
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1),
		index: make(map[string]FileID),
	}
}

// Add registers content under path and returns a new FileID. Re-adding the
// same path registers a new version and points the index at it.
func (fs *FileSet) Add(path string, content []byte) FileID {
	content = normalize(content)
	value, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(value)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    filepath.ToSlash(path),
		Content: content,
		lineIdx: buildLineIndex(content),
	})
	fs.index[filepath.ToSlash(path)] = id
	return id
}

// Load reads a file from disk and registers it.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from the caller
	if err != nil {
		return NoFileID, err
	}
	return fs.Add(path, content), nil
}

// Get returns the file for an ID, or nil when the ID is invalid.
func (fs *FileSet) Get(id FileID) *File {
	if !id.IsValid() || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Lookup returns the most recent FileID registered under path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[filepath.ToSlash(path)]
	return id, ok
}

// Len reports the number of registered files.
func (fs *FileSet) Len() int { return len(fs.files) - 1 }

// Position resolves the start of a span to a path/line/column triple.
// Unknown files yield a zero Position.
func (fs *FileSet) Position(sp Span) Position {
	f := fs.Get(sp.File)
	if f == nil {
		return Position{}
	}
	line := sort.Search(len(f.lineIdx), func(i int) bool {
		return f.lineIdx[i] > sp.Start
	})
	// line is 1-based already: lineIdx[0] == 0 is always <= Start.
	col := int(sp.Start) - int(f.lineIdx[line-1]) + 1
	return Position{Path: f.Path, Line: line, Col: col}
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 1, 16)
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)+1)
		}
	}
	return idx
}

// normalize strips a UTF-8 BOM and rewrites CRLF line endings.
func normalize(content []byte) []byte {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	}
	return content
}
