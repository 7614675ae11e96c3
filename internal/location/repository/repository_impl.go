package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sentinel-ews/sentinel/internal/location/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var locations []domain.Location
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

type parentRow struct {
	ID       snowflake.ID
	ParentID *snowflake.ID
}

func (r *repo) AncestorIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]snowflake.ID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[snowflake.ID]struct{}, len(ids))
	frontier := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		frontier = append(frontier, id)
	}

	// Walk the parent chain level by level. The tree is shallow (country,
	// state, locality) so this terminates in a handful of queries.
	for len(frontier) > 0 {
		var rows []parentRow
		err := db.WithContext(ctx).
			Model(&domain.Location{}).
			Select("id", "parent_id").
			Where("id IN ?", frontier).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, row := range rows {
			if row.ParentID == nil {
				continue
			}
			if _, ok := seen[*row.ParentID]; ok {
				continue
			}
			seen[*row.ParentID] = struct{}{}
			frontier = append(frontier, *row.ParentID)
		}
	}

	out := make([]snowflake.ID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out, nil
}
