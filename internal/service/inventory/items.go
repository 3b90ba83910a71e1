package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/domain"
)

// ListItems returns the full item catalog. Read-only, no group required.
func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// CreateItem adds a new item to the catalog.
func (s *Service) CreateItem(ctx context.Context, caller *auth.Identity, name string, price int32) (*domain.Item, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewMissingParamsError("name")
	}
	if price < 0 {
		return nil, domain.NewValidationError("price", "must be non-negative")
	}

	item, err := s.items.Create(ctx, strings.TrimSpace(name), price)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.log.InfoContext(ctx, "item created",
		slog.String("admin", caller.Username),
		slog.Int("item", int(item.ID)),
		slog.String("name", item.Name),
	)
	return item, nil
}

// UpdateItemInput changes an item's name and/or price.
type UpdateItemInput struct {
	ID    int32
	Name  *string
	Price *int32
}

// UpdateItem renames and/or reprices an item.
func (s *Service) UpdateItem(ctx context.Context, caller *auth.Identity, in UpdateItemInput) (*domain.Item, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	if in.ID < 1 {
		return nil, domain.NewMissingParamsError("id")
	}
	if in.Name == nil && in.Price == nil {
		return nil, domain.NewValidationError("update", "either the name or price of an item must be provided")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, domain.NewValidationError("price", "must be non-negative")
	}

	item, err := s.items.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", in.ID, err)
	}

	if in.Name != nil {
		if err := s.items.UpdateName(ctx, item.ID, strings.TrimSpace(*in.Name)); err != nil {
			return nil, fmt.Errorf("update item name: %w", err)
		}
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		if err := s.items.UpdatePrice(ctx, item.ID, *in.Price); err != nil {
			return nil, fmt.Errorf("update item price: %w", err)
		}
		item.Price = *in.Price
	}

	s.log.InfoContext(ctx, "item updated",
		slog.String("admin", caller.Username),
		slog.Int("item", int(item.ID)),
	)
	return item, nil
}

// DeleteItem removes an item from the catalog.
func (s *Service) DeleteItem(ctx context.Context, caller *auth.Identity, id int32) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if id < 1 {
		return domain.NewMissingParamsError("id")
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}

	s.log.InfoContext(ctx, "item deleted",
		slog.String("admin", caller.Username),
		slog.Int("item", int(id)),
	)
	return nil
}
