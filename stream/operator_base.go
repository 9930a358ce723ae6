package stream

import (
	"github.com/rs/zerolog"
	"github.com/tarungka/rxwire/internal/logger"
)

// BaseOperator is embedded by operators for their id and logger.
type BaseOperator struct {
	// The unique identifier of the operator.
	id string
	// Tagged with the operator id.
	logger zerolog.Logger
}

// NewBaseOperator creates a new BaseOperator.
func NewBaseOperator(id string) *BaseOperator {
	return &BaseOperator{
		id:     id,
		logger: logger.GetLogger("operator").With().Str("operator_id", id).Logger(),
	}
}

// ID returns the unique identifier of the operator.
func (o *BaseOperator) ID() string {
	return o.id
}

// Logger returns the operator's logger.
func (o *BaseOperator) Logger() *zerolog.Logger {
	return &o.logger
}
