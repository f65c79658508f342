// Package clocktext converts between HH:MM:SS clock strings and millisecond counts.
package clocktext

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidFormat indicates the text is not three numeric fields separated by ':'.
	ErrInvalidFormat = errors.New("invalid time format, expected HH:MM:SS")
	// ErrOutOfRange indicates minutes, seconds or the total are outside the accepted range.
	ErrOutOfRange = errors.New("time value out of range")
)

const (
	msPerSecond   = 1000
	secondsPerMin = 60
	secondsPerHr  = 3600
)

// Parse converts HH:MM:SS text into a positive number of milliseconds.
func Parse(text string) (uint64, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("parse %q: %w", text, ErrInvalidFormat)
	}

	var fields [3]uint64
	for i, part := range parts {
		value, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", text, ErrInvalidFormat)
		}
		fields[i] = value
	}

	hours, minutes, seconds := fields[0], fields[1], fields[2]
	if minutes >= secondsPerMin || seconds >= secondsPerMin {
		return 0, fmt.Errorf("parse %q: %w", text, ErrOutOfRange)
	}

	hi, hourMs := bits.Mul64(hours, secondsPerHr*msPerSecond)
	if hi != 0 {
		return 0, fmt.Errorf("parse %q: %w", text, ErrOutOfRange)
	}
	total, carry := bits.Add64(hourMs, (minutes*secondsPerMin+seconds)*msPerSecond, 0)
	if carry != 0 {
		return 0, fmt.Errorf("parse %q: %w", text, ErrOutOfRange)
	}
	if total == 0 {
		return 0, fmt.Errorf("parse %q: %w", text, ErrOutOfRange)
	}

	return total, nil
}

// Format renders milliseconds as MM:SS, or HH:MM:SS once a full hour remains.
// Sub-second remainders are truncated.
func Format(ms uint64) string {
	totalSeconds := ms / msPerSecond
	hours := totalSeconds / secondsPerHr
	minutes := (totalSeconds % secondsPerHr) / secondsPerMin
	seconds := totalSeconds % secondsPerMin

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// ToDuration converts milliseconds to a time.Duration, saturating at the maximum.
func ToDuration(ms uint64) time.Duration {
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

// FromDuration converts a non-negative duration to milliseconds.
func FromDuration(duration time.Duration) uint64 {
	if duration <= 0 {
		return 0
	}
	return uint64(duration / time.Millisecond)
}
