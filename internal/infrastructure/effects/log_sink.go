package effects

import (
	"context"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
	"acctex.io/internal/infrastructure/logger"
)

// LogSink implements the EffectSink port by logging every outbound
// instruction of a committed batch. The instructions are fire-and-forget
// requests to the host platform; once the batch commits there is nothing to
// wait for, so logging the issued instruction is the whole job here.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink creates a logging effect sink.
func NewLogSink(logger logger.Logger) port.EffectSink {
	return &LogSink{logger: logger}
}

// Dispatch logs the committed effects.
func (s *LogSink) Dispatch(ctx context.Context, effects []entity.Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case entity.PayoutEffect:
			s.logger.LogInfo(ctx, "Payout issued",
				"from", e.From,
				"to", e.To,
				"quantity", e.Quantity.String(),
				"issuer", e.Quantity.Issuer,
				"memo", e.Memo)
		case entity.UpdateAuthEffect:
			s.logger.LogInfo(ctx, "Permission update issued",
				"account", e.Account,
				"permission", e.Permission,
				"parent", e.Parent)
		default:
			s.logger.LogWarning(ctx, "Unknown effect type dropped")
		}
	}
}
