package validators

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"casegraph/domain/core/valueobjects"
)

// RecordValidator screens upstream entity and relationship records before
// model building. Invalid records are dropped with a warning, never surfaced
// as errors: stale or partial upstream data must degrade, not fail the view.
type RecordValidator struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRecordValidator creates a validator with struct-tag based rules.
func NewRecordValidator(logger *zap.Logger) *RecordValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordValidator{
		validate: validator.New(),
		logger:   logger,
	}
}

// FilterEntities returns the entities passing validation, preserving order.
func (v *RecordValidator) FilterEntities(records []valueobjects.EntityRecord) []valueobjects.EntityRecord {
	valid := make([]valueobjects.EntityRecord, 0, len(records))
	for _, record := range records {
		if err := v.validate.Struct(record); err != nil {
			v.logger.Warn("Dropping invalid entity record",
				zap.String("entity_id", record.ID),
				zap.Error(err),
			)
			continue
		}
		valid = append(valid, record)
	}
	return valid
}

// FilterRelationships returns the relationships passing validation,
// preserving order.
func (v *RecordValidator) FilterRelationships(records []valueobjects.RelationshipRecord) []valueobjects.RelationshipRecord {
	valid := make([]valueobjects.RelationshipRecord, 0, len(records))
	for _, record := range records {
		if err := v.validate.Struct(record); err != nil {
			v.logger.Warn("Dropping invalid relationship record",
				zap.String("relationship_id", record.ID),
				zap.Error(err),
			)
			continue
		}
		valid = append(valid, record)
	}
	return valid
}
