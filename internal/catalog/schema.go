package catalog

import (
	"fmt"

	"github.com/temcen/teapick/internal/validation"
)

var schemas = validation.Default()

// validateDocument checks a decoded YAML document against the catalog
// schema. Semantic rules (non-blank names, well-formed tags) are checked
// after decoding.
func validateDocument(doc interface{}) error {
	result := schemas.Validate(validation.SchemaCatalog, doc)
	if result.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, result.Summary())
}
