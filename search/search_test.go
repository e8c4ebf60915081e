package search

import (
	"context"
	"testing"

	"talentclub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeAggregator struct {
	calls   int
	lastOut mongo.Pipeline
	results []models.Lesson
}

func (f *fakeAggregator) Aggregate(_ context.Context, pipeline mongo.Pipeline) ([]models.Lesson, error) {
	f.calls++
	f.lastOut = pipeline
	return f.results, nil
}

func TestSearchEmptyQuerySkipsStore(t *testing.T) {
	agg := &fakeAggregator{results: []models.Lesson{{ID: "1"}}}
	svc := NewService(agg)

	results, err := svc.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("empty query must return an empty (non-nil) slice, got %#v", results)
	}
	if agg.calls != 0 {
		t.Fatalf("store touched on empty query: %d calls", agg.calls)
	}
}

func TestSearchRunsPipeline(t *testing.T) {
	agg := &fakeAggregator{results: []models.Lesson{{ID: "1", Topic: "Yoga", Price: 25}}}
	svc := NewService(agg)

	results, err := svc.Search(context.Background(), "25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.calls != 1 {
		t.Fatalf("expected one aggregation, got %d", agg.calls)
	}
	if len(results) != 1 || results[0].Topic != "Yoga" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestBuildPipelineShape(t *testing.T) {
	pipeline := BuildPipeline("yoga")
	if len(pipeline) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(pipeline))
	}

	addFields := pipeline[0]
	if addFields[0].Key != "$addFields" {
		t.Fatalf("first stage is %s, want $addFields", addFields[0].Key)
	}
	converted := addFields[0].Value.(bson.D)
	if converted[0].Key != "priceStr" || converted[1].Key != "spacesStr" {
		t.Fatalf("numeric renderings missing: %+v", converted)
	}

	match := pipeline[1]
	if match[0].Key != "$match" {
		t.Fatalf("second stage is %s, want $match", match[0].Key)
	}
	or := match[0].Value.(bson.D)[0]
	if or.Key != "$or" {
		t.Fatalf("match must be an $or, got %s", or.Key)
	}
	branches := or.Value.(bson.A)
	if len(branches) != 4 {
		t.Fatalf("expected 4 match branches, got %d", len(branches))
	}

	wantFields := []string{"topic", "location", "priceStr", "spacesStr"}
	for i, branch := range branches {
		d := branch.(bson.D)
		if d[0].Key != wantFields[i] {
			t.Fatalf("branch %d matches %s, want %s", i, d[0].Key, wantFields[i])
		}
		rx := d[0].Value.(primitive.Regex)
		if rx.Options != "i" {
			t.Fatalf("branch %d is not case-insensitive: %+v", i, rx)
		}
		if rx.Pattern != "yoga" {
			t.Fatalf("branch %d pattern %q", i, rx.Pattern)
		}
	}
}

func TestBuildPipelineQuotesMetacharacters(t *testing.T) {
	pipeline := BuildPipeline("c++ (advanced)")
	or := pipeline[1][0].Value.(bson.D)[0]
	rx := or.Value.(bson.A)[0].(bson.D)[0].Value.(primitive.Regex)
	want := `c\+\+ \(advanced\)`
	if rx.Pattern != want {
		t.Fatalf("pattern %q, want %q", rx.Pattern, want)
	}
}
