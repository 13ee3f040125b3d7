// Package batch builds rectangular device-ready blocks out of variable
// length id sequences, with and without attached retrieval sets.
package batch

// Block is a rectangular row-major array of token ids. Rows shorter than
// Cols are right-filled with the PAD sentinel. A Block is built fresh per
// minibatch and never mutated after construction.
type Block struct {
	Data []int32
	Rows int
	Cols int

	// Ptr is the opaque device address when the block is resident on an
	// accelerator. Zero for host-resident blocks.
	Ptr uintptr
}

// At returns the id at row r, column c.
func (b *Block) At(r, c int) int32 {
	return b.Data[r*b.Cols+c]
}

// Row returns row r of the block.
func (b *Block) Row(r int) []int32 {
	return b.Data[r*b.Cols : (r+1)*b.Cols]
}

// Device moves host blocks to a compute device. Implementations live in the
// device package; the converter only needs the move operation.
type Device interface {
	Name() string
	Move(b *Block) (*Block, error)
}

// Reclaimer is implemented by devices whose Move allocates per-batch
// resources. A step may move several blocks, so allocations are released in
// bulk once the step that consumed them completes, not on the next Move.
type Reclaimer interface {
	Reclaim() error
}

// Reclaim releases dev's outstanding per-batch allocations when the device
// implements Reclaimer. Host-only devices have nothing to release.
func Reclaim(dev Device) error {
	if r, ok := dev.(Reclaimer); ok {
		return r.Reclaim()
	}
	return nil
}

// Pair is a converted (source, target) block pair.
type Pair struct {
	Source *Block
	Target *Block
}

// Batch is a converted minibatch. Similar holds one Pair per retrieval rank:
// Similar[r] batches every member's r-th retrieved example, padded with the
// empty placeholder for members that have fewer than r+1 retrievals.
type Batch struct {
	Pair
	Similar []Pair
}
