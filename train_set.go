package gan_go

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TrainSet In-memory set of real training vectors served as an infinite,
// randomized, restartable minibatch stream. Pixel values are already scaled
// to [-1, 1] at load time so they live on the same interval as the
// generator's tanh output.
type TrainSet struct {
	samples *Matrix
	order   []int
	cursor  int
	rng     *rand.Rand
}

// NewTrainSet Constructor for TrainSet over provided sample matrix
// [num_samples, dim]. The generator drives epoch shuffling; pass the training
// session's seeded instance.
func NewTrainSet(samples *Matrix, rng *rand.Rand) (*TrainSet, error) {
	if samples.rows == 0 {
		return nil, fmt.Errorf("Training set must have one sample atleast")
	}
	ts := &TrainSet{
		samples: samples,
		order:   make([]int, samples.rows),
		rng:     rng,
	}
	for i := range ts.order {
		ts.order[i] = i
	}
	ts.shuffle()
	return ts, nil
}

// LoadCTFTrainSet Reads a CTF-style text record file where each line carries
// a '|labels' field (ignored) and a '|features' field of imageDim pixel
// values in [0, 255]:
//
//	|labels 0 0 0 0 0 1 0 0 0 0 |features 0 0 34 255 115 ...
//
// Malformed records are skipped; a missing file or a file without a single
// valid record is an error, which callers should treat as fatal before any
// training begins.
func LoadCTFTrainSet(fname string, imageDim int, rng *rand.Rand) (*TrainSet, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't open training data file '%s'", fname))
	}
	defer file.Close()

	data := make([]float64, 0, 1024*imageDim)
	numSamples := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		features, ok := parseCTFRecord(scanner.Text(), imageDim)
		if !ok {
			continue
		}
		data = append(data, features...)
		numSamples++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't read training data file '%s'", fname))
	}
	if numSamples == 0 {
		return nil, fmt.Errorf("Training data file '%s' has no valid records", fname)
	}
	samples, err := NewMatrixFromSlice(numSamples, imageDim, data)
	if err != nil {
		return nil, errors.Wrap(err, "Can't wrap training data")
	}
	return NewTrainSet(samples, rng)
}

// parseCTFRecord Extracts the feature field from one record line and scales
// every pixel into [-1, 1]. Returns false for records without a complete
// feature field.
func parseCTFRecord(line string, imageDim int) ([]float64, bool) {
	idx := strings.Index(line, "|features")
	if idx < 0 {
		return nil, false
	}
	rest := line[idx+len("|features"):]
	// The feature field ends at the next '|' field marker, if any
	if end := strings.Index(rest, "|"); end >= 0 {
		rest = rest[:end]
	}
	fields := strings.Fields(rest)
	if len(fields) != imageDim {
		return nil, false
	}
	features := make([]float64, imageDim)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		features[i] = v/127.5 - 1.0
	}
	return features, true
}

// Len Returns number of samples in the set
func (ts *TrainSet) Len() int {
	return ts.samples.rows
}

// Dim Returns dimension of each sample
func (ts *TrainSet) Dim() int {
	return ts.samples.cols
}

func (ts *TrainSet) shuffle() {
	ts.rng.Shuffle(len(ts.order), func(i, j int) {
		ts.order[i], ts.order[j] = ts.order[j], ts.order[i]
	})
}

// NextBatch Returns the next batch of up to batchSize samples as a fresh
// matrix the caller may treat as immutable for the duration of its step.
// Near an epoch boundary the returned batch can be shorter than requested;
// the stream then reshuffles and restarts, so the next call serves a full
// batch again. Callers that need exact batch sizes skip short batches.
func (ts *TrainSet) NextBatch(batchSize int) *Matrix {
	remaining := len(ts.order) - ts.cursor
	n := batchSize
	if n > remaining {
		n = remaining
	}
	dim := ts.samples.cols
	batch := NewMatrix(n, dim)
	for i := 0; i < n; i++ {
		src := ts.order[ts.cursor+i] * dim
		copy(batch.data[i*dim:(i+1)*dim], ts.samples.data[src:src+dim])
	}
	ts.cursor += n
	if ts.cursor >= len(ts.order) {
		ts.shuffle()
		ts.cursor = 0
	}
	return batch
}
