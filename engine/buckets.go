package engine

import "fmt"

// Buckets is an ordered partition of the number line by ascending floors.
// The first bucket also takes everything below the second floor and the last
// has no upper bound, so every value lands in exactly one bucket.
type Buckets []Bucket

// GradeBands is the fixed letter-grade partition.
var GradeBands = Buckets{
	{Label: "F", Range: "0-59", Floor: 0},
	{Label: "D", Range: "60-69", Floor: 60},
	{Label: "C", Range: "70-79", Floor: 70},
	{Label: "B", Range: "80-89", Floor: 80},
	{Label: "A", Range: "90-100", Floor: 90},
}

// ScoreRanges is GradeBands labelled by score range, for histograms.
var ScoreRanges = Buckets{
	{Label: "0-59", Range: "0-59", Floor: 0},
	{Label: "60-69", Range: "60-69", Floor: 60},
	{Label: "70-79", Range: "70-79", Floor: 70},
	{Label: "80-89", Range: "80-89", Floor: 80},
	{Label: "90-100", Range: "90-100", Floor: 90},
}

// Index returns the bucket v falls into. NaN falls into the first bucket.
func (b Buckets) Index(v float64) int {
	idx := 0
	for i := 1; i < len(b); i++ {
		if v >= b[i].Floor {
			idx = i
		}
	}
	return idx
}

func (b Buckets) validate() {
	if len(b) == 0 {
		panic("engine: empty bucket partition")
	}
	for i := 1; i < len(b); i++ {
		if b[i].Floor <= b[i-1].Floor {
			panic(fmt.Sprintf("engine: bucket %q floor %v not above %q floor %v",
				b[i].Label, b[i].Floor, b[i-1].Label, b[i-1].Floor))
		}
	}
}

// Bucketize counts the rows of view per bucket of measure. Every bucket is
// present in the output, in partition order, even with a zero count.
func Bucketize(view RecordView, measure string, buckets Buckets) []BucketCount {
	buckets.validate()
	mustMeasure(view, measure)

	counts := make([]BucketCount, len(buckets))
	for i, b := range buckets {
		counts[i] = BucketCount{Label: b.Label, Range: b.Range}
	}
	for i := 0; i < view.Len(); i++ {
		counts[buckets.Index(view.Measure(i, measure))].Count++
	}
	return counts
}
