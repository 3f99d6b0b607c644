package mot

import (
	kalman_filter "github.com/LdDl/kalman-filter"
)

// Kalman filter props for bounding box motion model.
// Control inputs are zero: prediction must come from estimated velocity only.
const (
	kfControlCx = 0.0
	kfControlCy = 0.0
	kfControlW  = 0.0
	kfControlH  = 0.0
	kfStdDevA   = 2.0
	kfStdDevMCx = 0.1
	kfStdDevMCy = 0.1
	kfStdDevMW  = 0.1
	kfStdDevMH  = 0.1
)

// newBBoxFilter creates 8-D Kalman filter with state [cx, cy, w, h, vx, vy, vw, vh]
// initialized at the given box with zero velocities.
func newBBoxFilter(box Rectangle, dt float64) *kalman_filter.KalmanBBox {
	center := Center(box)
	return kalman_filter.NewKalmanBBox(
		dt, kfControlCx, kfControlCy, kfControlW, kfControlH,
		kfStdDevA, kfStdDevMCx, kfStdDevMCy, kfStdDevMW, kfStdDevMH,
		kalman_filter.WithStateBBox(center.X, center.Y, box.Width, box.Height),
	)
}
