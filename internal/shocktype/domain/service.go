package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateShockTypeRequest struct {
	Name     string
	Icon     string
	Color    string
	CSSClass string
}

type UpdateShockTypeRequest struct {
	ID       snowflake.ID
	Name     *string
	Icon     *string
	Color    *string
	CSSClass *string
}

type Service interface {
	Create(context.Context, CreateShockTypeRequest) (*ShockType, error)
	Update(context.Context, UpdateShockTypeRequest) (*ShockType, error)
	GetByID(ctx context.Context, id snowflake.ID) (*ShockType, error)
	// List returns all shock types ordered by name, served from cache when
	// warm.
	List(ctx context.Context) ([]ShockType, error)
	// ListWithStats is List plus per-type alert counts, cached separately.
	ListWithStats(ctx context.Context) ([]ShockTypeWithStats, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidName = errors.New("invalid_name")
	ErrNameTaken   = errors.New("name_taken")
	// ErrInUse is returned when deletion would orphan alerts; the alert
	// reference is delete-protected.
	ErrInUse = errors.New("in_use")
)
