// internal/app/store/snapshot/snapshot.go
//
// Package snapshot exports and imports the application's collections as a
// single JSON document, for backups and for moving data between deployments.
// Documents are encoded as canonical MongoDB extended JSON so ObjectIDs and
// timestamps survive the round trip exactly.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collections lists every collection a snapshot covers, in import order:
// referenced collections come before the collections that reference them.
var Collections = []string{
	"users",
	"subjects",
	"study_groups",
	"group_memberships",
	"group_join_requests",
	"group_messages",
}

type fileFormat struct {
	ID          string                       `json:"id"`
	ExportedAt  time.Time                    `json:"exported_at"`
	Collections map[string][]json.RawMessage `json:"collections"`
}

// Result reports what an Export or Import touched.
type Result struct {
	ID       string
	Written  map[string]int // Export: documents written per collection
	Inserted map[string]int // Import: documents inserted per collection
	Skipped  map[string]int // Import: duplicates left in place per collection
}

// Export writes a snapshot of all collections to w and returns the snapshot
// ID with per-collection document counts.
func Export(ctx context.Context, db *mongo.Database, w io.Writer) (Result, error) {
	res := Result{
		ID:      uuid.NewString(),
		Written: make(map[string]int),
	}
	out := fileFormat{
		ID:          res.ID,
		ExportedAt:  time.Now().UTC(),
		Collections: make(map[string][]json.RawMessage),
	}

	for _, name := range Collections {
		cur, err := db.Collection(name).Find(ctx, bson.M{})
		if err != nil {
			return res, fmt.Errorf("export %s: %w", name, err)
		}
		var docs []bson.Raw
		if err := cur.All(ctx, &docs); err != nil {
			return res, fmt.Errorf("export %s: %w", name, err)
		}

		encoded := make([]json.RawMessage, 0, len(docs))
		for _, doc := range docs {
			ext, err := bson.MarshalExtJSON(doc, true, false)
			if err != nil {
				return res, fmt.Errorf("export %s: %w", name, err)
			}
			encoded = append(encoded, ext)
		}
		out.Collections[name] = encoded
		res.Written[name] = len(encoded)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return res, err
	}
	return res, nil
}

// Import reads a snapshot from r and inserts its documents. Documents whose
// _id already exists are skipped, so importing into a non-empty database
// adds what is missing and leaves existing data alone.
func Import(ctx context.Context, db *mongo.Database, r io.Reader) (Result, error) {
	var in fileFormat
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Result{}, fmt.Errorf("decode snapshot: %w", err)
	}

	res := Result{
		ID:       in.ID,
		Inserted: make(map[string]int),
		Skipped:  make(map[string]int),
	}

	for _, name := range Collections {
		for _, raw := range in.Collections[name] {
			var doc bson.D
			if err := bson.UnmarshalExtJSON(raw, true, &doc); err != nil {
				return res, fmt.Errorf("import %s: %w", name, err)
			}
			_, err := db.Collection(name).InsertOne(ctx, doc)
			if wafflemongo.IsDup(err) {
				res.Skipped[name]++
				continue
			}
			if err != nil {
				return res, fmt.Errorf("import %s: %w", name, err)
			}
			res.Inserted[name]++
		}
	}
	return res, nil
}
