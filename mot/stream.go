package mot

import (
	"context"
)

// Run drives tracker from a channel of frames. It is the single consumer of
// frames: at most one cycle is in flight and snapshots are emitted in frame order.
//
// Output channel is closed when frames is closed, ctx is done or tracker is
// stopped. Tracker is stopped on return, so it can't be reused afterwards.
func Run(ctx context.Context, tracker *Tracker, frames <-chan []Detection) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)
		defer tracker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case detections, ok := <-frames:
				if !ok {
					return
				}
				snapshot, err := tracker.Update(detections)
				if err != nil {
					tracker.logger.Error("cycle aborted", "stream", tracker.streamID, "err", err)
					return
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
