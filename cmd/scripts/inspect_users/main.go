package main

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/wuwenbin0122/taskpad/internal/db"
	"github.com/wuwenbin0122/taskpad/internal/utils"
)

// inspect_users prints the layout of the users store and the number of accounts
// with recovery enabled. It never reads hash columns.
func main() {
	if err := utils.LoadEnvFiles(".env", "config/.env"); err != nil {
		log.Printf("config: env file not loaded: %v", err)
	}

	cfg, err := utils.LoadStoreConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	switch cfg.StoreDriver {
	case utils.StorePostgres:
		inspectPostgres(ctx, cfg)
	case utils.StoreMongo:
		inspectMongo(ctx, cfg)
	default:
		log.Fatalf("store driver %q cannot be inspected", cfg.StoreDriver)
	}
}

func inspectPostgres(ctx context.Context, cfg *utils.Config) {
	postgres, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer postgres.Close()

	const query = `SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = 'public' AND table_name = 'users' ORDER BY ordinal_position`
	rows, err := postgres.Pool.Query(ctx, query)
	if err != nil {
		log.Fatalf("query columns: %v", err)
	}
	defer rows.Close()

	fmt.Println("columns:")
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			log.Fatalf("scan: %v", err)
		}
		fmt.Printf("- %s (%s)\n", name, dataType)
	}
	if rows.Err() != nil {
		log.Fatalf("rows: %v", rows.Err())
	}

	var total, withQuestion int64
	const counts = `SELECT COUNT(*), COUNT(security_question) FROM users`
	if err := postgres.Pool.QueryRow(ctx, counts).Scan(&total, &withQuestion); err != nil {
		log.Fatalf("count users: %v", err)
	}
	fmt.Printf("users: %d (security question set: %d)\n", total, withQuestion)
}

func inspectMongo(ctx context.Context, cfg *utils.Config) {
	mongoStore, err := db.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	defer mongoStore.Close(context.Background())

	specs, err := mongoStore.Users.Indexes().ListSpecifications(ctx)
	if err != nil {
		log.Fatalf("list indexes: %v", err)
	}

	fmt.Println("indexes:")
	for _, spec := range specs {
		unique := spec.Unique != nil && *spec.Unique
		fmt.Printf("- %s %s unique=%t\n", spec.Name, spec.KeysDocument.String(), unique)
	}

	total, err := mongoStore.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatalf("count users: %v", err)
	}
	withQuestion, err := mongoStore.Users.CountDocuments(ctx, bson.M{"securityQuestion": bson.M{"$exists": true}})
	if err != nil {
		log.Fatalf("count users: %v", err)
	}
	fmt.Printf("users: %d (security question set: %d)\n", total, withQuestion)
}
