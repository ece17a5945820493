package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/cache"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// MongoCollection is the collection holding profile documents.
const MongoCollection = "bentoconfigs"

// DefaultMongoDatabase is used when neither the URI nor the options name a
// database.
const DefaultMongoDatabase = "bento"

// MongoStore keeps documents in MongoDB, one per user, keyed by a unique
// username index.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	bs     grid.Breakpoints
}

// OpenMongo connects to uri, verifies the connection and ensures the
// username index. A database named in the URI wins over database.
func OpenMongo(ctx context.Context, uri, database string, bs grid.Breakpoints) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store needs a connection URI")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("bentogrid"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
				return cache.Retryable(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	if cs, err := connstring.ParseAndValidate(uri); err == nil && cs.Database != "" {
		database = cs.Database
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
		bs:     bs,
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the unique username index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create username index")
	}
	return nil
}

// mongoRecord keeps widgets and layouts raw: older writers stored them as
// JSON strings instead of sub-documents.
type mongoRecord struct {
	Username  string        `bson:"username"`
	Widgets   bson.RawValue `bson:"widgets"`
	Layouts   bson.RawValue `bson:"layouts"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// Load finds the document by username.
func (s *MongoStore) Load(ctx context.Context, username string) (*bento.Document, error) {
	var m mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&m)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(username)
	}
	if err != nil {
		return nil, mongoError(err, "load %s", username)
	}

	r := bento.Record{Username: m.Username, UpdatedAt: m.UpdatedAt}
	if err := decodeRaw(m.Widgets, &r.Widgets); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode widgets of %s", username)
	}
	if err := decodeRaw(m.Layouts, &r.Layouts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode layouts of %s", username)
	}
	if r.Widgets == nil {
		r.Widgets = []bento.Widget{}
	}
	return bento.FromRecord(r, s.bs), nil
}

// decodeRaw unmarshals a BSON value that is either structured or a JSON
// string. Missing and null values leave v untouched.
func decodeRaw(raw bson.RawValue, v any) error {
	switch raw.Type {
	case 0, bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeString:
		str, _ := raw.StringValueOK()
		if str == "" {
			return nil
		}
		return json.Unmarshal([]byte(str), v)
	default:
		return raw.Unmarshal(v)
	}
}

// Save upserts the document. createdAt is only written on insert.
func (s *MongoStore) Save(ctx context.Context, doc *bento.Document) error {
	r := stamp(doc)
	update := bson.M{
		"$set": bson.M{
			"username":  r.Username,
			"widgets":   r.Widgets,
			"layouts":   r.Layouts,
			"updatedAt": r.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt": r.UpdatedAt,
		},
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"username": r.Username}, update, options.Update().SetUpsert(true))
	if err != nil {
		return mongoError(err, "save %s", r.Username)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoError(err error, format string, args ...any) error {
	switch {
	case mongo.IsTimeout(err):
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	case mongo.IsNetworkError(err):
		return errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
	default:
		return errors.Wrap(errors.ErrCodeStore, err, format, args...)
	}
}

var _ Store = (*MongoStore)(nil)
