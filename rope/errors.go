package rope

import "errors"

var (
	ErrMissingAnchor       = errors.New("rope: missing anchor body")
	ErrInvalidConfig       = errors.New("rope: invalid config")
	ErrInvalidLength       = errors.New("rope: invalid target length")
	ErrChainNotFiltered    = errors.New("rope: collision filtering has not been applied")
	ErrAdjustmentPreempted = errors.New("rope: adjustment preempted by a newer request")
	ErrTornDown            = errors.New("rope: chain has been torn down")
)
