package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"riskscreen/internal/model"
)

// Seeds a few completed screenings so the operator dashboard has data to
// show during development.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "riskscreen"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	respondents := client.Database(dbName).Collection("respondents")

	now := time.Now()
	demo := []model.RespondentProfile{
		{
			RespondentID: "demo_1001",
			Username:     "quiet_fox",
			FirstName:    "Dana",
			LastName:     "Willis",
			ClassLabel:   "9A",
			AgeCategory:  model.AgeYoung,
			Stage:        model.StageCompleted,
			Totals:       model.FactorTotals{Family: 8, Psychological: 12, Environment: 6, School: 4},
			TotalRisk:    30,
			Bands: &model.FactorBands{
				Family:        model.BandLow,
				Psychological: model.BandLow,
				Environment:   model.BandLow,
				School:        model.BandLow,
				Total:         model.BandLow,
			},
			CreatedAt:   now.Add(-48 * time.Hour),
			UpdatedAt:   now.Add(-47 * time.Hour),
			CompletedAt: timePtr(now.Add(-47 * time.Hour)),
		},
		{
			RespondentID: "demo_1002",
			Username:     "night_owl",
			FirstName:    "Riley",
			LastName:     "Marsh",
			ClassLabel:   "9B",
			AgeCategory:  model.AgeYoung,
			Stage:        model.StageCompleted,
			Totals:       model.FactorTotals{Family: 22, Psychological: 31, Environment: 18, School: 15},
			TotalRisk:    86,
			Bands: &model.FactorBands{
				Family:        model.BandMedium,
				Psychological: model.BandMedium,
				Environment:   model.BandMedium,
				School:        model.BandMedium,
				Total:         model.BandMedium,
			},
			CreatedAt:   now.Add(-24 * time.Hour),
			UpdatedAt:   now.Add(-23 * time.Hour),
			CompletedAt: timePtr(now.Add(-23 * time.Hour)),
		},
		{
			RespondentID: "demo_1003",
			Username:     "late_reader",
			FirstName:    "Sasha",
			LastName:     "Brennan",
			ClassLabel:   "11C",
			AgeCategory:  model.AgeOld,
			Stage:        model.StageCompleted,
			Totals:       model.FactorTotals{Family: 34, Psychological: 48, Environment: 27, School: 21},
			TotalRisk:    130,
			Bands: &model.FactorBands{
				Family:        model.BandHigh,
				Psychological: model.BandHigh,
				Environment:   model.BandHigh,
				School:        model.BandHigh,
				Total:         model.BandHigh,
			},
			CreatedAt:   now.Add(-2 * time.Hour),
			UpdatedAt:   now.Add(-1 * time.Hour),
			CompletedAt: timePtr(now.Add(-1 * time.Hour)),
		},
	}

	for _, profile := range demo {
		opts := options.Replace().SetUpsert(true)
		_, err := respondents.ReplaceOne(ctx, bson.M{"respondentId": profile.RespondentID}, profile, opts)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", profile.RespondentID, err)
		}
		fmt.Printf("Seeded %s (%s %s, total %d)\n", profile.RespondentID, profile.FirstName, profile.LastName, profile.TotalRisk)
	}

	fmt.Println("Done")
}

func timePtr(t time.Time) *time.Time {
	return &t
}
