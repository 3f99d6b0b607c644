package main

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/LdDl/blobtrack/mot"
)

// maxFrameGap limits number of empty frames inserted between two consecutive rows
const maxFrameGap = 100000

// readDetections parses rows "frame;x;y;width;height;label;confidence".
// Rows must be ordered by frame; missing frame numbers become empty frames.
// Optional header row starting with "frame" is skipped.
func readDetections(r io.Reader) ([][]mot.Detection, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = 7
	reader.TrimLeadingSpace = true

	frames := make([][]mot.Detection, 0)
	firstFrame := -1
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "Can't read detections at line %d", line)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "frame") {
			continue
		}
		frame, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "Bad frame number at line %d", line)
		}
		values := make([]float64, 4)
		for i := range values {
			values[i], err = strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "Bad box value at line %d", line)
			}
		}
		confidence, err := strconv.ParseFloat(strings.TrimSpace(record[6]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad confidence at line %d", line)
		}
		if firstFrame < 0 {
			firstFrame = frame
		}
		idx := frame - firstFrame
		if idx < len(frames)-1 || idx < 0 {
			return nil, errors.Errorf("frame %d at line %d is out of order", frame, line)
		}
		if idx-len(frames) > maxFrameGap {
			return nil, errors.Errorf("frame %d at line %d skips more than %d frames", frame, line, maxFrameGap)
		}
		for len(frames) <= idx {
			frames = append(frames, []mot.Detection{})
		}
		det := mot.NewDetection(mot.NewRect(values[0], values[1], values[2], values[3]), strings.TrimSpace(record[5]), confidence)
		frames[idx] = append(frames[idx], det)
	}
	return frames, nil
}

// replay feeds frames through the tracker and writes every snapshot
func replay(ctx context.Context, tracker *mot.Tracker, frames [][]mot.Detection, w io.Writer) error {
	// Releases feeder and tracker goroutines on early return
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := csv.NewWriter(w)
	writer.Comma = ';'
	err := writer.Write([]string{"stream", "frame", "id", "label", "confidence", "x", "y", "width", "height", "misses"})
	if err != nil {
		return err
	}

	in := make(chan []mot.Detection)
	go func() {
		defer close(in)
		for _, frame := range frames {
			select {
			case in <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	for snapshot := range mot.Run(ctx, tracker, in) {
		if err := writeSnapshot(writer, snapshot); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "Can't write trajectories")
	}
	return ctx.Err()
}

func writeSnapshot(writer *csv.Writer, snapshot mot.Snapshot) error {
	stream := snapshot.StreamID.String()
	frame := strconv.FormatUint(snapshot.Frame, 10)
	for _, track := range snapshot.Tracks {
		err := writer.Write([]string{
			stream,
			frame,
			strconv.FormatUint(track.ID, 10),
			track.ClassLabel,
			strconv.FormatFloat(track.Confidence, 'f', 4, 64),
			strconv.FormatFloat(track.Box.X, 'f', 2, 64),
			strconv.FormatFloat(track.Box.Y, 'f', 2, 64),
			strconv.FormatFloat(track.Box.Width, 'f', 2, 64),
			strconv.FormatFloat(track.Box.Height, 'f', 2, 64),
			strconv.Itoa(track.ConsecutiveMissedFrames),
		})
		if err != nil {
			return errors.Wrapf(err, "Can't write frame %d", snapshot.Frame)
		}
	}
	return nil
}
