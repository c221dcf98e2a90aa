package ports

import "kaamos/internal/domain/survival"

type GameMetrics interface {
	RecordOperation(op string)
	RecordFailure(op string)
	RecordEnding(id survival.EndingID)
}
