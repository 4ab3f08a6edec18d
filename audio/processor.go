// SPDX-License-Identifier: EPL-2.0

package audio

// Processor is one stage of a push/pull PCM pipeline.
//
// The upstream side calls Configure once per format change, QueueInput zero
// or more times and QueueEndOfStream once when the source is exhausted. The
// downstream side calls Output after every QueueInput and polls IsEnded to
// know when to stop pulling. Flush and Reset may be called at any time.
//
// Implementations are not safe for concurrent use; a pipeline drives its
// stages from a single goroutine.
type Processor interface {
	// Configure validates in and returns the format the stage will emit.
	Configure(in Format) (Format, error)
	IsActive() bool
	// QueueInput transforms whole frames from in and returns the number of
	// bytes consumed. in is not retained.
	QueueInput(in []byte) (int, error)
	// Output hands over the pending output, which may be empty.
	Output() []byte
	QueueEndOfStream()
	IsEnded() bool
	Flush()
	Reset()
}
