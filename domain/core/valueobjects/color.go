package valueobjects

// ColorToken is a value object naming a palette color for an entity type.
// Rendering collaborators map tokens to actual theme colors.
type ColorToken string

const (
	ColorPerson       ColorToken = "person"
	ColorOrganization ColorToken = "organization"
	ColorLocation     ColorToken = "location"
	ColorEvent        ColorToken = "event"
	ColorDocument     ColorToken = "document"
	ColorAsset        ColorToken = "asset"
	ColorNeutral      ColorToken = "neutral"
)

// typePalette is the fixed lookup table from entity type to color token.
// Unknown types fall back to the neutral token, never an error.
var typePalette = map[string]ColorToken{
	"person":       ColorPerson,
	"organization": ColorOrganization,
	"company":      ColorOrganization,
	"location":     ColorLocation,
	"place":        ColorLocation,
	"event":        ColorEvent,
	"document":     ColorDocument,
	"asset":        ColorAsset,
}

// ColorForType resolves the palette token for an entity type.
func ColorForType(entityType string) ColorToken {
	if token, ok := typePalette[entityType]; ok {
		return token
	}
	return ColorNeutral
}

// String returns the string representation of the token.
func (c ColorToken) String() string {
	return string(c)
}
