//go:build cuda

package device

import (
	"log"
	"unsafe"

	"github.com/pkg/errors"
	"gorgonia.org/cu"

	"github.com/kiyomaro927/segnmt/batch"
)

type cudaDevice struct {
	id   int
	ctx  cu.CUContext
	live []cu.DevicePtr
}

// CUDA binds GPU id and returns a device that copies blocks into its memory.
// The host copy of each block stays populated so callers can still read ids
// back without a device round trip.
func CUDA(id int) (batch.Device, error) {
	dev := cu.Device(id)
	mem, err := dev.TotalMem()
	if err != nil {
		return nil, errors.Wrapf(err, "device: query gpu %d", id)
	}
	ctx, err := dev.MakeContext(cu.SchedAuto)
	if err != nil {
		return nil, errors.Wrapf(err, "device: bind gpu %d", id)
	}
	log.Printf("device: cuda %d (%d MiB)", id, mem>>20)
	return &cudaDevice{id: id, ctx: ctx}, nil
}

func (d *cudaDevice) Name() string { return "cuda" }

func (d *cudaDevice) Move(b *batch.Block) (*batch.Block, error) {
	size := int64(len(b.Data)) * int64(unsafe.Sizeof(int32(0)))
	ptr, err := cu.MemAlloc(size)
	if err != nil {
		return nil, errors.Wrap(err, "device: alloc block")
	}
	if err := cu.MemcpyHtoD(ptr, unsafe.Pointer(&b.Data[0]), size); err != nil {
		cu.MemFree(ptr)
		return nil, errors.Wrap(err, "device: copy block")
	}
	d.live = append(d.live, ptr)
	moved := *b
	moved.Ptr = uintptr(ptr)
	return &moved, nil
}

// Reclaim frees every block allocated since the previous Reclaim. The
// trainer calls it after each step, once the model is done with the batch.
func (d *cudaDevice) Reclaim() error {
	var first error
	for _, ptr := range d.live {
		if err := cu.MemFree(ptr); err != nil && first == nil {
			first = errors.Wrap(err, "device: free block")
		}
	}
	d.live = d.live[:0]
	return first
}
