// Package store provides persistent archival of planarity check reports.
//
// This package defines the Store interface for saving and retrieving check
// reports by run ID, with implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for the API server
//
// # Usage
//
// Create a store and save a report:
//
//	s, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "planarkit")
//	if err != nil {
//	    return err
//	}
//	defer s.Close(ctx)
//
//	rec := store.NewRecord(result.RunID.String(), report)
//	if err := s.Save(ctx, rec); err != nil {
//	    return err
//	}
//
// Retrieve it later:
//
//	rec, err := s.Get(ctx, id)
//	if errors.Is(err, errors.ErrCodeReportNotFound) {
//	    // Unknown run ID
//	}
package store

import (
	"context"
	"time"

	"github.com/matzehuels/planarkit/pkg/pipeline"
)

// Record is a stored check report with its run metadata.
type Record struct {
	// ID is the run ID the report was produced under.
	ID string `bson:"_id" json:"id"`

	// DocHash is the content hash of the checked document.
	DocHash string `bson:"doc_hash" json:"doc_hash"`

	// Planar is the verdict, duplicated out of the report so backends can
	// filter on it without decoding the full report.
	Planar bool `bson:"planar" json:"planar"`

	// Report is the full check report.
	Report pipeline.Report `bson:"report" json:"report"`

	// CreatedAt is when the record was saved.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NewRecord builds a record from a run ID and its report.
func NewRecord(id string, report pipeline.Report) Record {
	return Record{
		ID:        id,
		DocHash:   report.DocHash,
		Planar:    report.Planar,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for report storage backends.
type Store interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, rec Record) error

	// Get retrieves a record by run ID.
	// Returns an ErrCodeReportNotFound error if the ID is unknown.
	Get(ctx context.Context, id string) (Record, error)

	// ListByDocHash returns the most recent records for a document,
	// newest first, up to limit.
	ListByDocHash(ctx context.Context, docHash string, limit int) ([]Record, error)

	// Delete removes a record. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// DefaultListLimit bounds ListByDocHash when the caller passes limit <= 0.
const DefaultListLimit = 20
