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

// ReportRepo handles MongoDB operations for escalation reports
type ReportRepo interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, status model.ReportStatus) ([]*model.Report, error)
	Close(ctx context.Context, id, reply string) error
}

type reportRepo struct {
	reports *mongo.Collection
}

// NewReportRepo creates a new report repository with indexes
func NewReportRepo(db *mongo.Database) ReportRepo {
	repo := &reportRepo{
		reports: db.Collection("reports"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *reportRepo) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "respondentId", Value: 1}}},
	}
	if _, err := r.reports.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("Warning: failed to create report indexes: %v", err)
	}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	_, err := r.reports.InsertOne(ctx, report)
	return err
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	err := r.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context, status model.ReportStatus) ([]*model.Report, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.reports.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*model.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) Close(ctx context.Context, id, reply string) error {
	now := time.Now()
	_, err := r.reports.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":   model.ReportClosed,
			"reply":    reply,
			"closedAt": now,
		}},
	)
	return err
}
