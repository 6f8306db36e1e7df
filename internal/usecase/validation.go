package usecase

import (
	"strings"

	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
)

// ValidateTiers checks tier definitions: labels present and unique within
// the event, prices and quantities non-negative.
func ValidateTiers(tiers []model.TicketTier) error {
	seen := make(map[string]struct{}, len(tiers))
	for _, tier := range tiers {
		label := strings.TrimSpace(tier.Label)
		if label == "" {
			return domainErrors.ErrInvalidTier
		}
		if _, dup := seen[label]; dup {
			return domainErrors.ErrInvalidTier
		}
		seen[label] = struct{}{}
		if tier.UnitPrice < 0 || tier.QuantityTotal < 0 {
			return domainErrors.ErrInvalidTier
		}
	}
	return nil
}
