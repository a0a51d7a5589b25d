package round

import (
	"context"
	"log/slog"

	"github.com/oyunca/wordmatch-go/internal/model"
)

// defaultCategories is the seed set used when the store holds no categories
var defaultCategories = []struct {
	id          model.CategoryID
	name        string
	description string
}{
	{"fruits", "Fruits", "Name a fruit"},
	{"animals", "Animals", "Name an animal"},
	{"cities", "Cities", "Name a city"},
	{"colors", "Colors", "Name a color"},
	{"foods", "Foods", "Name a food or dish"},
	{"sports", "Sports", "Name a sport"},
	{"movies", "Movies", "Name a movie"},
	{"jobs", "Jobs", "Name a profession"},
}

// EnsureCategories seeds the default category set if the store has none
func (c *Controller) EnsureCategories(ctx context.Context) error {
	existing, err := c.storage.GetActiveCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := c.clock.Now()
	for _, d := range defaultCategories {
		if err := c.storage.SaveCategory(ctx, &model.Category{
			ID:          d.id,
			Name:        d.name,
			Description: d.description,
			IsActive:    true,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
	}

	c.logger.Info("seeded default categories", slog.Int("count", len(defaultCategories)))
	return nil
}
