package repository

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"riskscreen/internal/model"
)

// RespondentRepo handles MongoDB operations for respondent profiles.
// Upsert replaces the whole document, so a stage transition, field writes,
// and accumulated totals commit as one atomic write.
type RespondentRepo interface {
	Get(ctx context.Context, respondentID string) (*model.RespondentProfile, error)
	Upsert(ctx context.Context, profile *model.RespondentProfile) error
	List(ctx context.Context, limit int) ([]*model.RespondentProfile, error)
	BandSummary(ctx context.Context) (*model.BandSummary, error)
}

type respondentRepo struct {
	respondents *mongo.Collection
}

// NewRespondentRepo creates a new respondent repository with indexes
func NewRespondentRepo(db *mongo.Database) RespondentRepo {
	repo := &respondentRepo{
		respondents: db.Collection("respondents"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *respondentRepo) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "respondentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "stage", Value: 1}, {Key: "completedAt", Value: -1}},
		},
	}
	if _, err := r.respondents.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("Warning: failed to create respondent indexes: %v", err)
	}
}

func (r *respondentRepo) Get(ctx context.Context, respondentID string) (*model.RespondentProfile, error) {
	var profile model.RespondentProfile
	err := r.respondents.FindOne(ctx, bson.M{"respondentId": respondentID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *respondentRepo) Upsert(ctx context.Context, profile *model.RespondentProfile) error {
	profile.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.respondents.ReplaceOne(ctx,
		bson.M{"respondentId": profile.RespondentID},
		profile,
		opts,
	)
	return err
}

func (r *respondentRepo) List(ctx context.Context, limit int) ([]*model.RespondentProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.respondents.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []*model.RespondentProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// BandSummary counts completed screenings per factor band for the dashboard
func (r *respondentRepo) BandSummary(ctx context.Context) (*model.BandSummary, error) {
	cursor, err := r.respondents.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summary := &model.BandSummary{
		ByFactor: make(map[model.Factor]map[model.Band]int),
		ByTotal:  make(map[model.Band]int),
	}
	for _, f := range model.Factors() {
		summary.ByFactor[f] = make(map[model.Band]int)
	}

	for cursor.Next(ctx) {
		var profile model.RespondentProfile
		if err := cursor.Decode(&profile); err != nil {
			continue
		}
		if !profile.Completed() || profile.Bands == nil {
			if profile.Stage != model.StageIdle {
				summary.InProgress++
			}
			continue
		}
		summary.Completed++
		for _, f := range model.Factors() {
			summary.ByFactor[f][profile.Bands.Get(f)]++
		}
		summary.ByTotal[profile.Bands.Total]++
	}

	return summary, cursor.Err()
}
