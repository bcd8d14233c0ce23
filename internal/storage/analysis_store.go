package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/parcelhealth/parcelhealth-api/internal/analysis"
	"github.com/parcelhealth/parcelhealth-api/internal/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnalysisRecord is one persisted analysis summary for a parcel. The
// per-pixel table is not stored; it lives in the CSV export.
type AnalysisRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Parcel           string             `bson:"parcel" json:"parcel"`
	AnalysisDate     time.Time          `bson:"analysis_date" json:"analysis_date"`
	SceneDate        time.Time          `bson:"scene_date" json:"scene_date"`
	SceneSubstituted bool               `bson:"scene_substituted,omitempty" json:"scene_substituted,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`

	MaskedPixels  int `bson:"masked_pixels" json:"masked_pixels"`
	NoDataPixels  int `bson:"no_data_pixels" json:"no_data_pixels"`
	ClampedPixels int `bson:"clamped_pixels" json:"clamped_pixels"`

	Stats stats.Summary `bson:"stats" json:"stats"`
}

// NewAnalysisRecord flattens a pipeline result for persistence.
func NewAnalysisRecord(parcel string, result *analysis.Result) AnalysisRecord {
	return AnalysisRecord{
		Parcel:           parcel,
		AnalysisDate:     result.RequestedDate,
		SceneDate:        result.SceneDate,
		SceneSubstituted: result.SceneSubstituted,
		CreatedAt:        time.Now().UTC(),
		MaskedPixels:     result.MaskedPixels,
		NoDataPixels:     result.NoDataPixels,
		ClampedPixels:    result.ClampedPixels,
		Stats:            result.Stats,
	}
}

// Store keeps the analysis history in the "analyses" collection.
type Store struct {
	client   *mongo.Client
	analyses *mongo.Collection
}

func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	analyses := client.Database(database).Collection("analyses")
	if _, err := analyses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parcel", Value: 1}, {Key: "analysis_date", Value: -1}},
	}); err != nil {
		return nil, fmt.Errorf("failed to create analyses index: %w", err)
	}

	return &Store{client: client, analyses: analyses}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) SaveAnalysis(ctx context.Context, record AnalysisRecord) error {
	if _, err := s.analyses.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to save analysis record: %w", err)
	}
	return nil
}

func (s *Store) ListAnalyses(ctx context.Context, parcel string) ([]AnalysisRecord, error) {
	cursor, err := s.analyses.Find(ctx,
		bson.M{"parcel": parcel},
		options.Find().SetSort(bson.D{{Key: "analysis_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses for %s: %w", parcel, err)
	}
	defer cursor.Close(ctx)

	var records []AnalysisRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode analysis records: %w", err)
	}
	return records, nil
}
