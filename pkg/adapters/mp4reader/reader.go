// Package mp4reader implements ports.AssetReader for H.264 MP4 files.
//
// The container is demuxed in-process with mp4ff; decoding is delegated to
// an ffmpeg child process that emits packed RGBA frames, one process per
// playback session.
package mp4reader

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/user/kitsune/pkg/adapters/codecdetect"
	"github.com/user/kitsune/pkg/adapters/logger"
	"github.com/user/kitsune/pkg/ports"
)

// Options configures a Reader.
type Options struct {
	FFmpegPath string       // Optional explicit ffmpeg binary
	Logger     ports.Logger // Optional
}

// Reader streams decoded frames from an MP4 file.
type Reader struct {
	path   string
	opts   Options
	logger ports.Logger

	mu      sync.Mutex
	status  ports.ReaderStatus
	track   *track
	proc    *decodeProcess
	decoded int
}

// New creates a reader for the file at path. Nothing is opened until Reset.
func New(path string, opts Options) *Reader {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	return &Reader{
		path:   path,
		opts:   opts,
		logger: log.WithComponent("mp4reader"),
		status: ports.StatusIdle,
	}
}

// Info returns the probed track description. It is zero before the first
// successful Reset.
func (r *Reader) Info() codecdetect.Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.track == nil {
		return codecdetect.Info{}
	}
	return r.track.info
}

// Reset opens the file and starts a fresh decode from the first frame.
func (r *Reader) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	if r.track == nil {
		t, err := r.load()
		if err != nil {
			r.status = ports.StatusIdle
			return err
		}
		r.track = t
	}

	ffmpegPath, err := FindFFmpeg(r.opts.FFmpegPath)
	if err != nil {
		r.status = ports.StatusIdle
		return fmt.Errorf("%w: %v", ports.ErrIO, err)
	}

	proc, err := startDecodeProcess(ffmpegPath, r.track.units)
	if err != nil {
		r.status = ports.StatusIdle
		return fmt.Errorf("%w: %v", ports.ErrIO, err)
	}

	r.proc = proc
	r.decoded = 0
	r.status = ports.StatusReading
	r.logger.Debug("Decoding %s: %dx%d, %d samples", r.path, r.track.info.Width, r.track.info.Height, len(r.track.units))
	return nil
}

func (r *Reader) load() (*track, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrIO, err)
	}
	defer f.Close()

	t, err := demux(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrFormat, r.path, err)
	}
	return t, nil
}

// CopyNextImageBuffer blocks until the next frame is decoded.
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

	info := r.track.info
	img := image.NewRGBA(image.Rect(0, 0, info.Width, info.Height))
	err := r.proc.readFrame(img.Pix)
	if errors.Is(err, io.EOF) {
		r.status = ports.StatusCompleted
		r.logger.Debug("Decoded %d frames from %s", r.decoded, r.path)
		return ports.ImageBuffer{}, ports.ErrEndOfStream
	}
	if err != nil {
		r.status = ports.StatusFailed
		return ports.ImageBuffer{}, fmt.Errorf("%w: frame %d: %v", ports.ErrDecode, r.decoded+1, err)
	}

	r.decoded++
	return ports.NewImageBuffer(img), nil
}

// CancelReading stops the decoder process. Safe to call at any time.
func (r *Reader) CancelReading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.status = ports.StatusIdle
}

// Status returns the reader status.
func (r *Reader) Status() ports.ReaderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Reader) stopLocked() {
	if r.proc != nil {
		r.proc.kill()
		r.proc = nil
	}
}

var _ ports.AssetReader = (*Reader)(nil)
