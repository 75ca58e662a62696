package layer

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrUnknownLayer = errors.New("unknown layer")
	ErrLayerLoad    = errors.New("layer load failed")
)

// UnknownLayerError reports a layer name missing from the catalog.
type UnknownLayerError struct {
	Name string
}

func (e *UnknownLayerError) Error() string {
	return fmt.Sprintf("unknown layer %q", e.Name)
}

// Is matches ErrUnknownLayer.
func (e *UnknownLayerError) Is(target error) bool {
	return target == ErrUnknownLayer
}

// LayerLoadError reports a layer whose geometry could not be produced.
// It is recoverable: the layer is skipped and composition continues.
type LayerLoadError struct {
	Err    error
	Layer  string
	Source string
}

func (e *LayerLoadError) Error() string {
	msg := fmt.Sprintf("load layer %q", e.Layer)
	if e.Source != "" {
		msg += fmt.Sprintf(" from %s", e.Source)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrLayerLoad.
func (e *LayerLoadError) Is(target error) bool {
	return target == ErrLayerLoad
}

func (e *LayerLoadError) Unwrap() error {
	return e.Err
}
