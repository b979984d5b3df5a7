package mp4reader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// FindFFmpeg locates ffmpeg. A non-empty custom path must exist;
// otherwise PATH and common install locations are searched.
func FindFFmpeg(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err != nil {
			return "", fmt.Errorf("%w: custom path %s", ErrFFmpegNotFound, custom)
		}
		return custom, nil
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrFFmpegNotFound
}

// decodeProcess is one ffmpeg invocation turning an H.264 elementary
// stream on stdin into packed RGBA frames on stdout.
type decodeProcess struct {
	cmd    *exec.Cmd
	frames *bufio.Reader
	stderr *tailBuffer

	waitOnce sync.Once
	waitErr  error
}

func decodeArgs() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "h264",
		"-i", "pipe:0",
		"-vsync", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}
}

func startDecodeProcess(ffmpegPath string, units [][]byte) (*decodeProcess, error) {
	cmd := exec.Command(ffmpegPath, decodeArgs()...)
	stderr := &tailBuffer{limit: 4096}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	// Write errors mean ffmpeg exited early; the frame reader reports that.
	go func() {
		defer stdin.Close()
		for _, unit := range units {
			if _, err := stdin.Write(unit); err != nil {
				return
			}
		}
	}()

	return &decodeProcess{
		cmd:    cmd,
		frames: bufio.NewReaderSize(stdout, 1<<20),
		stderr: stderr,
	}, nil
}

// readFrame fills buf with the next frame. It returns io.EOF when the
// stream ended cleanly on a frame boundary.
func (p *decodeProcess) readFrame(buf []byte) error {
	n, err := io.ReadFull(p.frames, buf)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		if werr := p.wait(); werr != nil {
			return p.describe(werr)
		}
		return io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		p.wait()
		return p.describe(fmt.Errorf("truncated frame: got %d of %d bytes", n, len(buf)))
	default:
		return p.describe(err)
	}
}

func (p *decodeProcess) describe(err error) error {
	if msg := strings.TrimSpace(p.stderr.String()); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}

func (p *decodeProcess) wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
	})
	return p.waitErr
}

func (p *decodeProcess) kill() {
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.wait()
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   bytes.Buffer
}

func (t *tailBuffer) Write(b []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(b)
	if extra := t.buf.Len() - t.limit; extra > 0 {
		t.buf.Next(extra)
	}
	return len(b), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
