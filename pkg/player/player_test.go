package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/user/kitsune/pkg/adapters/logger"
	"github.com/user/kitsune/pkg/mocks"
	"github.com/user/kitsune/pkg/ports"
	"github.com/user/kitsune/pkg/refresh"
)

func writeFrames(t *testing.T, fs *mocks.FileSystem, dir string, n int, c color.Color) {
	t.Helper()
	fs.MkdirAll(dir)
	for i := 1; i <= n; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
		for y := 0; y < 2; y++ {
			for x := 0; x < 4; x++ {
				img.Set(x, y, c)
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		fs.WriteFile(fmt.Sprintf("%s/%04d.png", dir, i), buf.Bytes())
	}
}

// drive dispatches 60Hz ticks on pump until stop is closed.
func drive(pump *refresh.Pump, stop <-chan struct{}) {
	for i := 0; ; i++ {
		select {
		case <-stop:
			return
		default:
		}
		pump.Dispatch(time.Duration(i) * time.Second / 60)
		time.Sleep(time.Millisecond)
	}
}

type harness struct {
	fs       *mocks.FileSystem
	sink     *mocks.FrameSink
	renderer *mocks.Renderer
	pump     *refresh.Pump
	player   *Player
}

func newHarness() *harness {
	h := &harness{
		fs:       mocks.NewFileSystem(),
		sink:     mocks.NewFrameSink(),
		renderer: &mocks.Renderer{},
		pump:     refresh.NewPump(mocks.NewRefreshSource(), nil),
	}
	h.player = New(h.fs, h.sink, h.renderer, logger.NewNoop())
	return h
}

func (h *harness) run(t *testing.T, ctx context.Context, config Config) (Result, error) {
	t.Helper()
	config.Pump = h.pump
	stop := make(chan struct{})
	defer close(stop)
	go drive(h.pump, stop)

	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := h.player.Run(ctx, config)
		done <- outcome{r, err}
	}()
	select {
	case o := <-done:
		return o.result, o.err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run")
		return Result{}, nil
	}
}

func TestPlayer_SingleStreamSavesEveryFrame(t *testing.T) {
	h := newHarness()
	writeFrames(t, h.fs, "clip", 3, color.White)

	config := DefaultConfig()
	config.BasePath = "clip"
	config.Workers = 2
	result, err := h.run(t, context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Outcome != OutcomeCompleted {
		t.Errorf("expected completed, got %s", result.Outcome)
	}
	if result.Frames != 3 || result.Saved != 3 {
		t.Errorf("expected 3 frames and 3 saved, got %d and %d", result.Frames, result.Saved)
	}
	if result.Width != 4 || result.Height != 2 {
		t.Errorf("expected 4x2, got %dx%d", result.Width, result.Height)
	}
	if result.Dual {
		t.Error("expected single-stream result")
	}
	if got := h.sink.Indexes(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("unexpected saved indexes %v", got)
	}
}

func TestPlayer_DualStreamMergesAlpha(t *testing.T) {
	h := newHarness()
	writeFrames(t, h.fs, "base", 4, color.NRGBA{R: 0xff, A: 0xff})
	writeFrames(t, h.fs, "alpha", 2, color.Black)

	config := DefaultConfig()
	config.BasePath = "base"
	config.AlphaPath = "alpha"
	result, err := h.run(t, context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Dual || result.Outcome != OutcomeCompleted {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Frames != 2 {
		t.Errorf("expected the shorter track to end the pair after 2 frames, got %d", result.Frames)
	}
	img, ok := h.sink.Frame(1)
	if !ok {
		t.Fatal("expected frame 1 to be saved")
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("expected black matte to make the pixel transparent, alpha %d", a)
	}
}

func TestPlayer_MaxFramesStops(t *testing.T) {
	h := newHarness()
	writeFrames(t, h.fs, "clip", 6, color.White)

	config := DefaultConfig()
	config.BasePath = "clip"
	config.MaxFrames = 2
	result, err := h.run(t, context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outcome != OutcomeStopped {
		t.Errorf("expected stopped, got %s", result.Outcome)
	}
	if result.Frames != 2 || result.Saved != 2 {
		t.Errorf("expected 2 frames, got %d delivered and %d saved", result.Frames, result.Saved)
	}
}

func TestPlayer_DecodeErrorFails(t *testing.T) {
	h := newHarness()
	writeFrames(t, h.fs, "clip", 2, color.White)
	h.fs.WriteFile("clip/0003.png", []byte("truncated"))

	config := DefaultConfig()
	config.BasePath = "clip"
	result, err := h.run(t, context.Background(), config)
	if !errors.Is(err, ports.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if !IsPlaybackError(err) {
		t.Error("expected a playback error")
	}
	if result.Outcome != OutcomeFailed || result.Frames != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	if !errors.Is(result.FirstErr, ports.ErrDecode) {
		t.Errorf("expected FirstErr to carry the decode error, got %v", result.FirstErr)
	}
}

func TestPlayer_SaveErrorsAreAggregated(t *testing.T) {
	h := newHarness()
	writeFrames(t, h.fs, "clip", 3, color.White)
	h.sink.SaveErr = map[int]error{2: errors.New("disk full")}

	config := DefaultConfig()
	config.BasePath = "clip"
	result, err := h.run(t, context.Background(), config)
	if err == nil {
		t.Fatal("expected an output error")
	}
	if IsPlaybackError(err) {
		t.Errorf("expected output error only, got %v", err)
	}
	if result.Outcome != OutcomeCompleted || result.Saved != 2 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestPlayer_DisabledSinkSkipsOutput(t *testing.T) {
	h := newHarness()
	h.sink.Disabled = true
	writeFrames(t, h.fs, "clip", 2, color.White)

	config := DefaultConfig()
	config.BasePath = "clip"
	result, err := h.run(t, context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Frames != 2 || result.Saved != 0 {
		t.Errorf("unexpected result %+v", result)
	}
	if got := h.sink.Indexes(); len(got) != 0 {
		t.Errorf("expected nothing saved with a disabled sink, got %v", got)
	}
}

func TestPlayer_Canceled(t *testing.T) {
	h := newHarness()
	writeFrames(t, h.fs, "clip", 2, color.White)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := DefaultConfig()
	config.BasePath = "clip"
	config.Pump = h.pump
	result, err := h.player.Run(ctx, config)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Outcome != OutcomeCanceled {
		t.Errorf("expected canceled, got %s", result.Outcome)
	}
}

func TestPlayer_OpenErrors(t *testing.T) {
	h := newHarness()
	writeFrames(t, h.fs, "clip", 1, color.White)

	tests := []struct {
		name   string
		config Config
	}{
		{"empty base", Config{}},
		{"missing base", Config{BasePath: "nowhere"}},
		{"missing alpha", Config{BasePath: "clip", AlphaPath: "nowhere"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Pump = h.pump
			if _, err := h.player.Run(context.Background(), tt.config); !errors.Is(err, ports.ErrIO) {
				t.Errorf("expected ErrIO, got %v", err)
			}
		})
	}
}

func TestPlayer_ResetErrorIsReturned(t *testing.T) {
	h := newHarness()
	h.fs.MkdirAll("clip")
	h.fs.ReadDirFunc = func(string) ([]string, error) { return nil, errors.New("permission denied") }

	config := DefaultConfig()
	config.BasePath = "clip"
	config.Pump = h.pump
	if _, err := h.player.Run(context.Background(), config); !errors.Is(err, ports.ErrIO) {
		t.Errorf("expected ErrIO from reset, got %v", err)
	}
}
