package store

import (
	"context"
	"fmt"
	"time"

	"tuinue/internal/utils"
	"tuinue/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storyTableName = "tuinue.stories"

var storyColumns = utils.StructTagValues(types.Story{})

type StoryRepository struct {
	pool *pgxpool.Pool
}

func NewStoryRepository(pool *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{pool: pool}
}

func (r *StoryRepository) Story(ctx context.Context, storyID string) (*types.Story, error) {
	query, args, err := psql().
		Select(storyColumns...).
		From(storyTableName).
		Where(sq.Eq{"id": storyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate story query: %w", err)
	}

	var story types.Story
	err = pgxscan.Get(ctx, r.pool, &story, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch story: %w", err)
	}

	return &story, nil
}

func (r *StoryRepository) Create(ctx context.Context, story *types.Story) error {
	if story.ID == "" {
		story.ID = utils.NanoID()
	}
	now := time.Now().UTC()
	if story.DatePosted.IsZero() {
		story.DatePosted = now
	}
	story.CreatedAt = now

	query, args, err := psql().
		Insert(storyTableName).
		SetMap(utils.StructToMap(story)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create story query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}

	return nil
}

func (r *StoryRepository) Stories(ctx context.Context, limit, offset uint64) ([]*types.Story, error) {
	query, args, err := psql().
		Select(storyColumns...).
		From(storyTableName).
		OrderBy("date_posted DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate stories query: %w", err)
	}

	var stories = make([]*types.Story, 0)
	err = pgxscan.Select(ctx, r.pool, &stories, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stories: %w", err)
	}

	return stories, nil
}
