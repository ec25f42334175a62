package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// studybuddy-admin runs maintenance commands against the StudyBuddy
// database: join-request cleanup and JSON snapshot export/import.
//
// Connection settings come from STUDYBUDDY_MONGO_URI and
// STUDYBUDDY_MONGO_DATABASE, overridable with --mongo-uri / --mongo-database
// placed before the subcommand.
func main() {
	uri := envOr("STUDYBUDDY_MONGO_URI", "mongodb://localhost:27017")
	database := envOr("STUDYBUDDY_MONGO_DATABASE", "studybuddy")

	flag.StringVar(&uri, "mongo-uri", uri, "MongoDB connection URI")
	flag.StringVar(&database, "mongo-database", database, "MongoDB database name")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Fatal("mongo ping failed", zap.Error(err))
	}

	cli := &commandLine{
		db:  client.Database(database),
		log: logger,
		out: os.Stdout,
	}

	// flag.Parse consumed the global flags; the remainder is the subcommand.
	args := append([]string{os.Args[0]}, flag.Args()...)
	if err := cli.run(ctx, args); err != nil {
		if err != errHelp {
			logger.Error("command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
