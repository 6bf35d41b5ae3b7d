package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"notifier-go/core/tracelog"
)

// TraceCollection is the collection trace entries are appended to.
const TraceCollection = "notifier_trace"

// traceDocument is the MongoDB document structure for trace entries.
type traceDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Time     time.Time          `bson:"time"`
	Page     string             `bson:"page"`
	EventID  string             `bson:"event_id"`
	Mode     string             `bson:"mode"`
	Params   []paramDocument    `bson:"params,omitempty"`
	Rendered string             `bson:"rendered,omitempty"`
	TraceID  string             `bson:"trace_id,omitempty"`
}

// paramDocument stores one traced parameter as text; parameter values are
// arbitrary Go values and not all of them encode to BSON.
type paramDocument struct {
	Name  string `bson:"name"`
	Value string `bson:"value"`
}

// MongoTraceStore appends trace entries to a MongoDB collection.
// It implements tracelog.Sink.
type MongoTraceStore struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoTraceStore creates a trace store on the notifier_trace collection.
func NewMongoTraceStore(db *MongoDB, logger *slog.Logger) *MongoTraceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoTraceStore{
		collection: db.Collection(TraceCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the indexes used by FindByEvent.
func (s *MongoTraceStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "time", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create trace index: %w", err)
	}
	return nil
}

// Append inserts one trace entry.
func (s *MongoTraceStore) Append(ctx context.Context, e tracelog.Entry) error {
	if _, err := s.collection.InsertOne(ctx, entryToDocument(e)); err != nil {
		return fmt.Errorf("failed to insert trace entry: %w", err)
	}
	return nil
}

// FindByEvent returns the most recent entries for eventID, newest first.
// A non-positive limit returns every entry.
func (s *MongoTraceStore) FindByEvent(ctx context.Context, eventID string, limit int64) ([]tracelog.Entry, error) {
	cursor, err := s.collection.Find(ctx, eventFilter(eventID), recentOptions(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to find trace entries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []traceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode trace entries: %w", err)
	}

	return documentsToEntries(docs), nil
}

// Count returns the number of stored entries for eventID, or all entries
// when eventID is empty.
func (s *MongoTraceStore) Count(ctx context.Context, eventID string) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, eventFilter(eventID))
	if err != nil {
		return 0, fmt.Errorf("failed to count trace entries: %w", err)
	}
	return n, nil
}

// eventFilter matches entries of eventID; an empty eventID matches all.
func eventFilter(eventID string) bson.M {
	filter := bson.M{}
	if eventID != "" {
		filter["event_id"] = eventID
	}
	return filter
}

// recentOptions sorts newest first and caps the result at limit when positive.
func recentOptions(limit int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

func documentsToEntries(docs []traceDocument) []tracelog.Entry {
	entries := make([]tracelog.Entry, len(docs))
	for i := range docs {
		entries[i] = documentToEntry(&docs[i])
	}
	return entries
}

// entryToDocument converts a trace entry to a MongoDB document.
func entryToDocument(e tracelog.Entry) *traceDocument {
	doc := &traceDocument{
		Time:     e.Time.UTC(),
		Page:     e.Page,
		EventID:  e.EventID,
		Mode:     e.Mode.String(),
		Rendered: e.Rendered,
		TraceID:  e.TraceID,
	}

	if len(e.Fields) > 0 {
		doc.Params = make([]paramDocument, len(e.Fields))
		for i, f := range e.Fields {
			doc.Params[i] = paramDocument{Name: f.Name, Value: fmt.Sprintf("%+v", f.Value)}
		}
	}

	return doc
}

// documentToEntry converts a MongoDB document to a trace entry.
// Parameter values come back as their stored text.
func documentToEntry(doc *traceDocument) tracelog.Entry {
	e := tracelog.Entry{
		Time:     doc.Time,
		Page:     doc.Page,
		EventID:  doc.EventID,
		Mode:     tracelog.ParseMode(doc.Mode),
		Rendered: doc.Rendered,
		TraceID:  doc.TraceID,
	}

	if len(doc.Params) > 0 {
		e.Fields = make([]tracelog.Field, len(doc.Params))
		for i, p := range doc.Params {
			e.Fields[i] = tracelog.Field{Name: p.Name, Value: p.Value}
		}
	}

	return e
}
