package models

// StreamChunk is one increment of a streamed answer. A chunk with a
// non-nil Err is terminal: it is the last item delivered before the
// channel closes, and its Content is empty.
type StreamChunk struct {
	Content string
	Err     error
}
