package ports

// FrameConsumer receives frames from a single-stream engine.
// All methods are called on the refresh pump goroutine.
type FrameConsumer interface {
	// OnFrame receives the next decoded frame. The buffer is borrowed.
	OnFrame(buffer ImageBuffer)

	// OnError receives the decode error that ended the session.
	OnError(err error)

	// OnCompleted is called when the source is exhausted.
	OnCompleted()
}

// FramePairConsumer receives time-aligned base and alpha frames from a dual-stream engine.
// All methods are called on the refresh pump goroutine.
type FramePairConsumer interface {
	// OnFramePair receives the base (color) and alpha (matte) frames of one tick.
	// Both buffers carry the same Index.
	OnFramePair(base, alpha ImageBuffer)

	// OnError receives the decode error that ended the session.
	OnError(err error)

	// OnCompleted is called when either track is exhausted.
	OnCompleted()
}

// PlaybackObserver is notified of engine progress.
type PlaybackObserver interface {
	// OnFrameIndexAdvanced is called after every delivered frame.
	OnFrameIndexAdvanced(index int)

	// OnFinishedPlaying is called exactly once per session, after OnCompleted or OnError.
	OnFinishedPlaying()
}
