package harvest

import (
	"context"
	"database/sql"
	"log/slog"

	"fbharvest/lib/scrapers/fbgroup"
	"fbharvest/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("fbharvest.services.harvest")

type Service struct {
	client *fbgroup.Client
	db     *sql.DB
}

// NewService wires the group feed client to a posts database. db may be nil
// when persistence isn't wanted.
func NewService(client *fbgroup.Client, db *sql.DB) Service {
	return Service{
		client: client,
		db:     db,
	}
}

type HarvestOptions struct {
	MaxPostsPerGroup int
	PaginationLimit  int
}

// HarvestAll scrapes every group url independently and returns the combined
// batch. One group failing to fetch or persist never aborts the others.
func (s Service) HarvestAll(ctx context.Context, groupUrls []string, opts HarvestOptions) []fbgroup.Post {
	ctx, span := tracer.Start(ctx, "HarvestAll")
	defer span.End()

	if opts.MaxPostsPerGroup <= 0 {
		opts.MaxPostsPerGroup = 100
	}
	if opts.PaginationLimit <= 0 {
		opts.PaginationLimit = 10
	}

	var all []fbgroup.Post
	for _, groupUrl := range groupUrls {
		slog.InfoContext(ctx, "scraping group", "url", groupUrl)

		posts := s.client.FetchGroupPosts(ctx, groupUrl, opts.MaxPostsPerGroup, opts.PaginationLimit)
		slog.InfoContext(ctx, "scraped group", "url", groupUrl, "posts", len(posts))

		if s.db != nil {
			err := SavePosts(ctx, s.db, groupUrl, posts)
			if err != nil {
				slog.ErrorContext(ctx, "failed to persist posts", "url", groupUrl, "err", err)
			}
		}

		all = append(all, posts...)
	}

	span.SetAttributes(attribute.Int("posts", len(all)))
	return all
}
