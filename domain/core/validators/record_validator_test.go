package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"casegraph/domain/core/valueobjects"
)

func TestRecordValidator_FilterEntities(t *testing.T) {
	v := NewRecordValidator(zap.NewNop())

	valid := v.FilterEntities([]valueobjects.EntityRecord{
		{ID: "a", Type: "person", Name: "A", Degree: 2},
		{ID: "", Type: "person", Name: "missing id"},
		{ID: "c", Type: "", Name: "missing type"},
		{ID: "d", Type: "person", Name: "D", Degree: -1},
		{ID: "e", Type: "organization", Name: "E"},
	})

	assert.Len(t, valid, 2)
	assert.Equal(t, "a", valid[0].ID)
	assert.Equal(t, "e", valid[1].ID)
}

func TestRecordValidator_FilterRelationships(t *testing.T) {
	v := NewRecordValidator(nil)

	valid := v.FilterRelationships([]valueobjects.RelationshipRecord{
		{ID: "r1", SourceEntityID: "a", TargetEntityID: "b", Strength: 0.8},
		{ID: "", SourceEntityID: "a", TargetEntityID: "b"},
		{ID: "r3", SourceEntityID: "", TargetEntityID: "b"},
		{ID: "r4", SourceEntityID: "a", TargetEntityID: "b", Strength: -2},
	})

	assert.Len(t, valid, 1)
	assert.Equal(t, "r1", valid[0].ID)
}
