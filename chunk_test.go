package trellis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChunkBreakerToThreeColumns(t *testing.T) {
	b := ChunkBreakerTo(3)
	var chunks, positions []int
	for i := range 7 {
		chunks = append(chunks, b.ChunkIndex(i))
		positions = append(positions, b.PositionInChunk(i))
	}
	if diff := cmp.Diff([]int{0, 1, 2, 0, 1, 2, 0}, chunks); diff != "" {
		t.Errorf("chunk indices (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 0, 0, 1, 1, 1, 2}, positions); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
}

func TestChunkBreakerByThree(t *testing.T) {
	b := ChunkBreakerBy(3)
	var chunks, positions []int
	for i := range 7 {
		chunks = append(chunks, b.ChunkIndex(i))
		positions = append(positions, b.PositionInChunk(i))
	}
	if diff := cmp.Diff([]int{0, 0, 0, 1, 1, 1, 2}, chunks); diff != "" {
		t.Errorf("chunk indices (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 0, 1, 2, 0}, positions); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
}

func TestChunkBreakerPartition(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		breakers := []ChunkBreaker{ChunkBreakerBy(n), ChunkBreakerTo(n)}
		for _, b := range breakers {
			seen := make(map[[2]int]int)
			for i := range 40 {
				k := [2]int{b.ChunkIndex(i), b.PositionInChunk(i)}
				if prev, dup := seen[k]; dup {
					t.Errorf("%T(%d): indices %d and %d share %v", b, n, prev, i, k)
				}
				seen[k] = i
				if got := b.DataIndex(k[0], k[1]); got != i {
					t.Errorf("%T(%d).DataIndex(%v) = %d, want %d", b, n, k, got, i)
				}
			}
		}
		// By and To swap the row and column roles.
		by, to := ChunkBreakerBy(n), ChunkBreakerTo(n)
		for i := range 40 {
			if by.PositionInChunk(i) != to.ChunkIndex(i) || by.ChunkIndex(i) != to.PositionInChunk(i) {
				t.Errorf("n=%d i=%d: By and To are not transposes", n, i)
			}
		}
	}
}

func TestSingleChunk(t *testing.T) {
	var b singleChunk
	if b.ChunkIndex(17) != 0 || b.PositionInChunk(17) != 17 || b.DataIndex(0, 4) != 4 {
		t.Error("singleChunk should keep data order in chunk 0")
	}
}
