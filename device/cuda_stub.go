//go:build !cuda

package device

import (
	"github.com/pkg/errors"

	"github.com/kiyomaro927/segnmt/batch"
)

// CUDA is unavailable unless the binary is built with the cuda tag.
func CUDA(id int) (batch.Device, error) {
	return nil, errors.Errorf("device: gpu %d requested but binary was built without cuda support", id)
}
