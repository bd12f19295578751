package valueobjects

// EntityRecord is the read-only entity shape supplied by the data-fetching
// collaborator. The engine never mutates records; it derives nodes from them.
type EntityRecord struct {
	ID          string   `json:"id" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Degree      int      `json:"degree" validate:"gte=0"`
	Domain      string   `json:"domain,omitempty"`
	Domains     []string `json:"domains,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description_brief,omitempty"`
}

// DomainTags returns the combined domain membership of the entity.
// A singular Domain field and a Domains list may both be present upstream.
func (e EntityRecord) DomainTags() []string {
	if e.Domain == "" {
		return e.Domains
	}
	for _, d := range e.Domains {
		if d == e.Domain {
			return e.Domains
		}
	}
	tags := make([]string, 0, len(e.Domains)+1)
	tags = append(tags, e.Domain)
	tags = append(tags, e.Domains...)
	return tags
}

// RelationshipRecord is the read-only relationship shape supplied upstream.
// Several records may connect the same entity pair; the model builder
// collapses them into one edge.
type RelationshipRecord struct {
	ID                 string  `json:"id" validate:"required"`
	SourceEntityID     string  `json:"source_entity_id" validate:"required"`
	TargetEntityID     string  `json:"target_entity_id" validate:"required"`
	Label              string  `json:"label"`
	RelationshipType   string  `json:"relationship_type"`
	Strength           float64 `json:"strength" validate:"gte=0"`
	Confidence         float64 `json:"confidence,omitempty"`
	CorroborationCount int     `json:"corroboration_count,omitempty"`
	TemporalContext    string  `json:"temporal_context,omitempty"`
	EvidenceExcerpt    string  `json:"evidence_excerpt,omitempty"`
}
