// Package search matches a free-text query against lesson topic, location
// and the decimal renderings of price and seat count, so "25" finds a lesson
// priced at 25.
package search

import (
	"context"
	"regexp"

	"talentclub/apperr"
	"talentclub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Aggregator runs a pipeline over the lesson catalog.
type Aggregator interface {
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Lesson, error)
}

// BuildPipeline renders the numeric fields to strings with $toString and
// matches a case-insensitive pattern against all four fields. The query is
// quoted first so regex metacharacters search literally.
func BuildPipeline(query string) mongo.Pipeline {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	return mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "priceStr", Value: bson.D{{Key: "$toString", Value: "$price"}}},
			{Key: "spacesStr", Value: bson.D{{Key: "$toString", Value: "$spaces"}}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "topic", Value: pattern}},
				bson.D{{Key: "location", Value: pattern}},
				bson.D{{Key: "priceStr", Value: pattern}},
				bson.D{{Key: "spacesStr", Value: pattern}},
			}},
		}}},
	}
}

type Service struct {
	lessons Aggregator
}

func NewService(lessons Aggregator) *Service {
	return &Service{lessons: lessons}
}

// Search returns every matching lesson in store order. An empty query is an
// empty result, not an error and not the whole catalog; the store is not
// touched at all in that case.
func (s *Service) Search(ctx context.Context, query string) ([]models.Lesson, error) {
	if query == "" {
		return []models.Lesson{}, nil
	}

	results, err := s.lessons.Aggregate(ctx, BuildPipeline(query))
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreFailure, err, "searching lessons")
	}
	return results, nil
}
