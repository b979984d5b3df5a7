// Package imageseq implements ports.AssetReader over a directory of
// numbered still images, played back in file-name order.
package imageseq

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/user/kitsune/pkg/ports"
)

var extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Supported reports whether name has an image extension the reader decodes.
func Supported(name string) bool {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

// Reader decodes one file per frame.
type Reader struct {
	fs  ports.FileSystem
	dir string

	mu     sync.Mutex
	status ports.ReaderStatus
	files  []string
	next   int
}

// New creates a reader over dir. The directory is listed on Reset.
func New(fs ports.FileSystem, dir string) *Reader {
	return &Reader{fs: fs, dir: dir, status: ports.StatusIdle}
}

// Reset lists the directory and rewinds to the first image.
// An empty directory is valid and ends on the first copy.
func (r *Reader) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.fs.ReadDir(r.dir)
	if err != nil {
		r.status = ports.StatusIdle
		return fmt.Errorf("%w: list %s: %v", ports.ErrIO, r.dir, err)
	}

	files := names[:0:0]
	for _, name := range names {
		if Supported(name) {
			files = append(files, filepath.Join(r.dir, name))
		}
	}

	r.files = files
	r.next = 0
	r.status = ports.StatusReading
	return nil
}

// Len returns the number of frames found by the last Reset.
func (r *Reader) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// CopyNextImageBuffer decodes the next file in order.
func (r *Reader) CopyNextImageBuffer() (ports.ImageBuffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case ports.StatusCompleted:
		return ports.ImageBuffer{}, ports.ErrEndOfStream
	case ports.StatusReading:
	default:
		return ports.ImageBuffer{}, fmt.Errorf("%w: reader is %s", ports.ErrDecode, r.status)
	}

	if r.next >= len(r.files) {
		r.status = ports.StatusCompleted
		return ports.ImageBuffer{}, ports.ErrEndOfStream
	}

	path := r.files[r.next]
	data, err := r.fs.ReadFile(path)
	if err != nil {
		r.status = ports.StatusFailed
		return ports.ImageBuffer{}, fmt.Errorf("%w: read %s: %v", ports.ErrIO, path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		r.status = ports.StatusFailed
		return ports.ImageBuffer{}, fmt.Errorf("%w: %s: %v", ports.ErrDecode, path, err)
	}

	r.next++
	return ports.NewImageBuffer(img), nil
}

// CancelReading drops the file list.
func (r *Reader) CancelReading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = nil
	r.next = 0
	r.status = ports.StatusIdle
}

// Status returns the reader status.
func (r *Reader) Status() ports.ReaderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

var _ ports.AssetReader = (*Reader)(nil)
