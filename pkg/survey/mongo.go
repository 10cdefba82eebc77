package survey

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/surveycloud/pkg/cache"
	"github.com/matzehuels/surveycloud/pkg/errors"
)

const (
	defaultMongoDatabase = "surveycloud"
	mongoCollection      = "responses"
)

// MongoStore keeps responses in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoResponse struct {
	ID        string    `bson:"_id"`
	Question  string    `bson:"question,omitempty"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

// OpenMongo connects to uri. The database is taken from the URI path and
// defaults to "surveycloud".
func OpenMongo(ctx context.Context, uri string) (*MongoStore, error) {
	dbName := defaultMongoDatabase
	if u, err := url.Parse(uri); err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			dbName = name
		}
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	return &MongoStore{client: client, coll: client.Database(dbName).Collection(mongoCollection)}, nil
}

func (s *MongoStore) Append(ctx context.Context, r Response) error {
	doc := mongoResponse{
		ID:        r.ID.String(),
		Question:  r.Question,
		Text:      r.Text,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert response")
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find responses")
	}
	var docs []mongoResponse
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode responses")
	}

	out := make([]Response, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "response id %q", d.ID)
		}
		out = append(out, Response{ID: id, Question: d.Question, Text: d.Text, CreatedAt: d.CreatedAt})
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
