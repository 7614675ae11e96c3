package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	List(ctx context.Context) ([]EmailTemplate, error)
	GetByID(ctx context.Context, id snowflake.ID) (*EmailTemplate, error)
	// Save upserts by template name; only the known template names are
	// accepted.
	Save(ctx context.Context, template *EmailTemplate) error
	Delete(ctx context.Context, id snowflake.ID) error
	// SeedDefaults installs the stock templates, overwriting rows with
	// the same name.
	SeedDefaults(ctx context.Context) error
}
