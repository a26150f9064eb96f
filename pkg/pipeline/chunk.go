package pipeline

// Chunk is a contiguous range of units handed to exactly one worker
type Chunk struct {
	Index int // position among chunks, used only for reassembly
	Start int // first unit, inclusive
	End   int // last unit, exclusive
}

// Len returns the number of units in the chunk
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Split cuts units into at most workers equal chunks; the last chunk takes
// the remainder. Fewer chunks are produced when there are fewer units than
// workers, and zero units still yield one empty chunk.
func Split(units, workers int) []Chunk {
	n := workers
	if units < n {
		n = units
	}
	if n < 1 {
		n = 1
	}

	size := units / n
	chunks := make([]Chunk, n)
	for i := range chunks {
		chunks[i] = Chunk{Index: i, Start: i * size, End: (i + 1) * size}
	}
	chunks[n-1].End = units

	return chunks
}
