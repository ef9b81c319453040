package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/planarkit/pkg/errors"
)

// reportCollection is the collection reports are archived in.
const reportCollection = "reports"

// MongoStore is a MongoDB-backed report store for the API server.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(pingCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb at %s", uri)
	}
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb at %s", uri)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(reportCollection),
	}, nil
}

// Save stores a record, replacing any record with the same ID.
func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save report %s", rec.ID)
	}
	return nil
}

// Get retrieves a record by run ID.
func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return Record{}, errors.New(errors.ErrCodeReportNotFound, "report %s not found", id)
	}
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStorage, err, "load report %s", id)
	}
	return rec, nil
}

// ListByDocHash returns the most recent records for a document, newest first.
func (s *MongoStore) ListByDocHash(ctx context.Context, docHash string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.M{"doc_hash": docHash}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list reports for %s", docHash)
	}
	defer cur.Close(ctx)

	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode reports for %s", docHash)
	}
	return out, nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete report %s", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
