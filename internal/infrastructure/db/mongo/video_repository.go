package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qvideo/rental-api/internal/core/domain"
)

const collectionVideos = "videos"

// VideoRepository implements ports.VideoRepository on the videos collection.
type VideoRepository struct {
	col *mongo.Collection
	seq *Sequence
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{col: db.Collection(collectionVideos), seq: NewSequence(db)}
}

type mongoVideo struct {
	ID        int64  `bson:"_id"`
	Title     string `bson:"title"`
	Director  string `bson:"director"`
	Genre     string `bson:"genre"`
	Available bool   `bson:"is_available"`
}

func (m mongoVideo) toDomain() domain.Video {
	return domain.Video{ID: m.ID, Title: m.Title, Director: m.Director, Genre: m.Genre, Available: m.Available}
}

func (r *VideoRepository) FindAll(ctx context.Context) ([]domain.Video, error) {
	return r.find(ctx, bson.M{})
}

func (r *VideoRepository) FindByAvailable(ctx context.Context, available bool) ([]domain.Video, error) {
	return r.find(ctx, bson.M{"is_available": available})
}

func (r *VideoRepository) find(ctx context.Context, filter bson.M) ([]domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find videos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoVideo
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}

	videos := make([]domain.Video, 0, len(docs))
	for _, d := range docs {
		videos = append(videos, d.toDomain())
	}
	return videos, nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id int64) (*domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoVideo
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	v := doc.toDomain()
	return &v, nil
}

// Create inserts a new video document under the next sequence id.
func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.Next(ctx, collectionVideos)
	if err != nil {
		return err
	}

	doc := mongoVideo{ID: id, Title: v.Title, Director: v.Director, Genre: v.Genre, Available: v.Available}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	v.ID = id
	return nil
}

func (r *VideoRepository) Update(ctx context.Context, v *domain.Video) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": v.ID}, bson.M{
		"$set": bson.M{
			"title":        v.Title,
			"director":     v.Director,
			"genre":        v.Genre,
			"is_available": v.Available,
		},
	})
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

// EnsureIndexes creates the availability index used by FindByAvailable.
func (r *VideoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "is_available", Value: 1}}})
	return err
}
