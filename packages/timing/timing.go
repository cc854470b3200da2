// Package timing aggregates fixture execution times into percentiles.
package timing

import (
	"strconv"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minValueUs = 1
	maxValueUs = int64(time.Hour / time.Microsecond)
)

// Histogram records durations at microsecond precision
type Histogram struct {
	h *hdrhistogram.Histogram
}

// Stats is a snapshot of a Histogram
type Stats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// NewHistogram creates an empty histogram covering 1us to 1h with 3
// significant digits
func NewHistogram() *Histogram {
	return &Histogram{h: hdrhistogram.New(minValueUs, maxValueUs, 3)}
}

// Record adds a duration, clamped to the histogram range
func (h *Histogram) Record(d time.Duration) {
	us := d.Microseconds()
	if us < minValueUs {
		us = minValueUs
	}
	if us > maxValueUs {
		us = maxValueUs
	}
	_ = h.h.RecordValue(us)
}

// Stats returns the current percentiles. An empty histogram yields zero Stats.
func (h *Histogram) Stats() Stats {
	count := h.h.TotalCount()
	if count == 0 {
		return Stats{}
	}
	return Stats{
		Count: count,
		Min:   us(h.h.Min()),
		Max:   us(h.h.Max()),
		Mean:  time.Duration(h.h.Mean() * float64(time.Microsecond)),
		P50:   us(h.h.ValueAtQuantile(50)),
		P95:   us(h.h.ValueAtQuantile(95)),
		P99:   us(h.h.ValueAtQuantile(99)),
	}
}

func us(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// Format renders a duration with two decimals in the largest unit that keeps
// the value at or above one, e.g. "12.35µs", "1.23ms", "2.00s"
func Format(d time.Duration) string {
	switch {
	case d >= time.Second:
		return trim2(float64(d)/float64(time.Second), "s")
	case d >= time.Millisecond:
		return trim2(float64(d)/float64(time.Millisecond), "ms")
	case d >= time.Microsecond:
		return trim2(float64(d)/float64(time.Microsecond), "µs")
	default:
		return trim2(float64(d), "ns")
	}
}

func trim2(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + unit
}
