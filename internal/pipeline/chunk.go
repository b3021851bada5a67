package pipeline

import "github.com/amishk599/jobhydra/internal/model"

// Chunk splits cands into consecutive groups of at most size elements.
// The groups share the backing array of cands. A non-positive size yields a
// single chunk.
func Chunk(cands []model.Candidate, size int) [][]model.Candidate {
	if len(cands) == 0 {
		return nil
	}
	if size <= 0 || size >= len(cands) {
		return [][]model.Candidate{cands}
	}
	chunks := make([][]model.Candidate, 0, (len(cands)+size-1)/size)
	for start := 0; start < len(cands); start += size {
		end := min(start+size, len(cands))
		chunks = append(chunks, cands[start:end:end])
	}
	return chunks
}
