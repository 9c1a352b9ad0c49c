package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

const (
	likesCollection     = "likes"
	matchesCollection   = "matches"
	likePairsCollection = "like_pairs"

	namespaceExistsCode = 48
)

type likeDoc struct {
	ID         string    `bson:"_id"`
	ActorID    string    `bson:"actor_id"`
	TargetID   string    `bson:"target_id"`
	TargetType string    `bson:"target_type"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d *likeDoc) toModel() (*models.LikeEdge, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("like %q: %w", d.ID, err)
	}
	actor, err := uuid.Parse(d.ActorID)
	if err != nil {
		return nil, fmt.Errorf("like %q actor: %w", d.ID, err)
	}
	target, err := uuid.Parse(d.TargetID)
	if err != nil {
		return nil, fmt.Errorf("like %q target: %w", d.ID, err)
	}
	return &models.LikeEdge{
		ID:         id,
		ActorID:    actor,
		TargetID:   target,
		TargetType: models.TargetType(d.TargetType),
		CreatedAt:  d.CreatedAt,
	}, nil
}

// matchDoc is keyed by the canonical pair so a pair can hold one record
type matchDoc struct {
	PairKey   string    `bson:"_id"`
	ID        string    `bson:"id"`
	User1ID   string    `bson:"user1_id"`
	User2ID   string    `bson:"user2_id"`
	MatchedAt time.Time `bson:"matched_at"`
}

type mongoRepository struct {
	client  *mongo.Client
	likes   *mongo.Collection
	matches *mongo.Collection
	pairs   *mongo.Collection
}

// NewMongoRepository prepares the likes and matches collections.
// The unique index on the like triple backs duplicate detection.
// InsertLike uses multi-document transactions, so the server must be a
// replica set member or mongos.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	likes := db.Collection(likesCollection)
	_, err := likes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "target_id", Value: 1}, {Key: "target_type", Value: 1}},
			Options: options.Index().SetName("like_triple_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "target_id", Value: 1}, {Key: "target_type", Value: 1}},
			Options: options.Index().SetName("target"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mongo ensure like indexes: %w", err)
	}
	for _, name := range []string{matchesCollection, likePairsCollection} {
		err := db.CreateCollection(ctx, name)
		var cmdErr mongo.CommandError
		if err != nil && !(errors.As(err, &cmdErr) && cmdErr.HasErrorCode(namespaceExistsCode)) {
			return nil, fmt.Errorf("mongo create %s: %w", name, err)
		}
	}

	return &mongoRepository{
		client:  db.Client(),
		likes:   likes,
		matches: db.Collection(matchesCollection),
		pairs:   db.Collection(likePairsCollection),
	}, nil
}

func (r *mongoRepository) InsertLike(ctx context.Context, like *models.LikeEdge) (bool, error) {
	doc := &likeDoc{
		ID:         like.ID.String(),
		ActorID:    like.ActorID.String(),
		TargetID:   like.TargetID.String(),
		TargetType: string(like.TargetType),
		CreatedAt:  like.CreatedAt,
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return false, fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	res, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.likes.InsertOne(sc, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return false, duplicateOf(like)
			}
			return false, fmt.Errorf("failed to insert like: %w", err)
		}

		if like.TargetType != models.TargetUser {
			return false, nil
		}

		// Both reciprocal likes of a pair write this document, so concurrent
		// transactions conflict and the retried one sees the other's edge.
		pair := models.NewPair(like.ActorID, like.TargetID)
		_, err := r.pairs.UpdateOne(sc,
			bson.D{{Key: "_id", Value: pair.Key()}},
			bson.D{{Key: "$inc", Value: bson.D{{Key: "likes", Value: 1}}}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return false, fmt.Errorf("failed to lock pair: %w", err)
		}

		reverse, err := r.LikeExists(sc, like.TargetID, like.ActorID, models.TargetUser)
		if err != nil || !reverse {
			return false, err
		}

		_, err = r.matches.UpdateOne(sc,
			bson.D{{Key: "_id", Value: pair.Key()}},
			bson.D{{Key: "$setOnInsert", Value: bson.D{
				{Key: "id", Value: uuid.New().String()},
				{Key: "user1_id", Value: pair.User1ID.String()},
				{Key: "user2_id", Value: pair.User2ID.String()},
				{Key: "matched_at", Value: like.CreatedAt},
			}}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return false, fmt.Errorf("failed to record match: %w", err)
		}
		return true, nil
	}, options.Transaction().SetReadConcern(readconcern.Snapshot()).SetWriteConcern(writeconcern.Majority()))
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

func (r *mongoRepository) LikeExists(ctx context.Context, actorID, targetID uuid.UUID, targetType models.TargetType) (bool, error) {
	n, err := r.likes.CountDocuments(ctx, bson.D{
		{Key: "actor_id", Value: actorID.String()},
		{Key: "target_id", Value: targetID.String()},
		{Key: "target_type", Value: string(targetType)},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return n > 0, nil
}

func (r *mongoRepository) findLikes(ctx context.Context, filter bson.D) ([]*models.LikeEdge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.likes.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find likes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []likeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode likes: %w", err)
	}

	out := make([]*models.LikeEdge, 0, len(docs))
	for i := range docs {
		l, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *mongoRepository) LikesByActor(ctx context.Context, actorID uuid.UUID, targetType models.TargetType) ([]*models.LikeEdge, error) {
	return r.findLikes(ctx, bson.D{
		{Key: "actor_id", Value: actorID.String()},
		{Key: "target_type", Value: string(targetType)},
	})
}

func (r *mongoRepository) LikesByTarget(ctx context.Context, targetID uuid.UUID, targetType models.TargetType) ([]*models.LikeEdge, error) {
	return r.findLikes(ctx, bson.D{
		{Key: "target_id", Value: targetID.String()},
		{Key: "target_type", Value: string(targetType)},
	})
}

func (r *mongoRepository) MatchRecords(ctx context.Context) ([]*models.MatchRecord, error) {
	cur, err := r.matches.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "matched_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find matches: %w", err)
	}
	defer cur.Close(ctx)

	var docs []matchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}

	out := make([]*models.MatchRecord, 0, len(docs))
	for _, d := range docs {
		id, err1 := uuid.Parse(d.ID)
		u1, err2 := uuid.Parse(d.User1ID)
		u2, err3 := uuid.Parse(d.User2ID)
		if err := errors.Join(err1, err2, err3); err != nil {
			return nil, fmt.Errorf("match %q: %w", d.PairKey, err)
		}
		out = append(out, &models.MatchRecord{ID: id, User1ID: u1, User2ID: u2, MatchedAt: d.MatchedAt})
	}
	return out, nil
}

func (r *mongoRepository) MutualPairs(ctx context.Context) ([]models.Pair, error) {
	edges, err := r.findLikes(ctx, bson.D{{Key: "target_type", Value: string(models.TargetUser)}})
	if err != nil {
		return nil, err
	}

	seen := make(map[[2]uuid.UUID]bool, len(edges))
	for _, e := range edges {
		seen[[2]uuid.UUID{e.ActorID, e.TargetID}] = true
	}

	var pairs []models.Pair
	for _, e := range edges {
		if models.LessID(e.ActorID, e.TargetID) && seen[[2]uuid.UUID{e.TargetID, e.ActorID}] {
			pairs = append(pairs, models.NewPair(e.ActorID, e.TargetID))
		}
	}
	return pairs, nil
}

func (r *mongoRepository) SaveMatchRecord(ctx context.Context, rec *models.MatchRecord) (bool, error) {
	pair := rec.Pair()
	if rec.MatchedAt.IsZero() {
		rec.MatchedAt = time.Now().UTC()
	}
	_, err := r.matches.InsertOne(ctx, &matchDoc{
		PairKey:   pair.Key(),
		ID:        rec.ID.String(),
		User1ID:   pair.User1ID.String(),
		User2ID:   pair.User2ID.String(),
		MatchedAt: rec.MatchedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to save match: %w", err)
	}
	return true, nil
}

func (r *mongoRepository) DeleteMatchRecord(ctx context.Context, id uuid.UUID) error {
	if _, err := r.matches.DeleteOne(ctx, bson.D{{Key: "id", Value: id.String()}}); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}
