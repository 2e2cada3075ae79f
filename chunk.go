package trellis

// ChunkBreaker partitions a 1-D data sequence into chunks, each of which gets
// its own MeasurementCache. GridLayout uses a pair of breakers to turn one
// ordered data source into rows and columns.
type ChunkBreaker interface {
	// ChunkIndex returns the chunk data index i belongs to.
	ChunkIndex(i int) int
	// PositionInChunk returns the rank of i inside its chunk.
	PositionInChunk(i int) int
	// DataIndex is the inverse of (ChunkIndex, PositionInChunk).
	DataIndex(chunk, pos int) int
	// Count returns the breaker's parameter n.
	Count() int
}

// ChunkBreakerBy splits data into chunks of a fixed size n.
type ChunkBreakerBy int

func (n ChunkBreakerBy) ChunkIndex(i int) int { return i / int(n) }
func (n ChunkBreakerBy) PositionInChunk(i int) int { return i % int(n) }
func (n ChunkBreakerBy) DataIndex(chunk, pos int) int { return chunk*int(n) + pos }
func (n ChunkBreakerBy) Count() int { return int(n) }

// ChunkBreakerTo splits data into a fixed number n of chunks, dealing items
// out round-robin.
type ChunkBreakerTo int

func (n ChunkBreakerTo) ChunkIndex(i int) int { return i % int(n) }
func (n ChunkBreakerTo) PositionInChunk(i int) int { return i / int(n) }
func (n ChunkBreakerTo) DataIndex(chunk, pos int) int { return pos*int(n) + chunk }
func (n ChunkBreakerTo) Count() int { return int(n) }

// singleChunk puts every item in chunk 0 in data order.
type singleChunk struct{}

func (singleChunk) ChunkIndex(int) int { return 0 }
func (singleChunk) PositionInChunk(i int) int { return i }
func (singleChunk) DataIndex(_, pos int) int { return pos }
func (singleChunk) Count() int { return 1 }
