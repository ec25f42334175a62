package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/studybuddyhq/studybuddy/internal/app/store/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupTestDB connects to a local MongoDB (or MONGO_TEST_URI when set) and
// hands back a database unique to this test. Tests that need Mongo skip when
// no server is reachable, so the suite still passes on machines without one.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("mongodb not reachable: %v", err)
	}

	name := fmt.Sprintf("studybuddy_test_%d", time.Now().UnixNano())
	db := client.Database(name)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a timeout suitable for test database
// operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
