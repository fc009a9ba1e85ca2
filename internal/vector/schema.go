package vector

import (
	"context"
	"strings"
	"unicode"

	"github.com/weaviate/weaviate/entities/models"
)

// SchemaClient defines the interface for Weaviate schema operations
type SchemaClient interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, className string) (*models.Class, error)
	AddProperty(ctx context.Context, className string, property *models.Property) error
}

// ClassName maps a knowledge base name onto a valid Weaviate class name:
// GraphQL identifier rules require a leading uppercase letter, so segments
// split at non-alphanumerics are title-cased and joined. The mapping is
// stable: the same knowledge base always lands in the same class.
func ClassName(knowledgeBase string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range knowledgeBase {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if upperNext {
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
			continue
		}
		upperNext = true
	}
	name := b.String()
	if name == "" || !unicode.IsLetter(rune(name[0])) {
		name = "Kb" + name
	}
	return name
}

// coreProperties are declared up front; batch-supplied metadata fields
// beyond these are added by Weaviate's auto-schema on first write.
var coreProperties = []*models.Property{
	{
		Name:     "content",
		DataType: []string{"text"},
	},
	{
		Name:     "source",
		DataType: []string{"string"}, // path or file url (exact match)
	},
	{
		Name:     "chunkIndex",
		DataType: []string{"int"},
	},
	{
		Name:     "contentType",
		DataType: []string{"string"},
	},
	{
		Name:     "title",
		DataType: []string{"text"},
	},
}

// EnsureClass checks that the class for a knowledge base exists with the
// core properties, creating whatever is missing.
func EnsureClass(ctx context.Context, client SchemaClient, className string) error {
	exists, err := client.ClassExists(ctx, className)
	if err != nil {
		return err
	}

	if !exists {
		class := &models.Class{
			Class:       className,
			Description: "A chunk of an ingested knowledge base file",
			Vectorizer:  "none",
			Properties:  coreProperties,
		}
		return client.CreateClass(ctx, class)
	}

	// Class exists, check for missing properties
	class, err := client.GetClass(ctx, className)
	if err != nil {
		return err
	}

	existingProps := make(map[string]bool)
	for _, p := range class.Properties {
		existingProps[p.Name] = true
	}

	for _, p := range coreProperties {
		if !existingProps[p.Name] {
			if err := client.AddProperty(ctx, className, p); err != nil {
				return err
			}
		}
	}

	return nil
}
