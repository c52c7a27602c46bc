// Package mongostore persists the helpdesk in MongoDB. Documents are codec
// records; Mongo's own _id is never exposed.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hdbaza/helpdesk-api/internal/codec"
	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/repository"
)

// Collection names.
const (
	ProblemsCollection     = "problems"
	InstructionsCollection = "instructions"
	AdminsCollection       = "admins"
)

var withoutObjectID = bson.M{"_id": 0}

// New returns a Store backed by db.
func New(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Problems:     &problemRepo{coll: db.Collection(ProblemsCollection)},
		Instructions: &instructionRepo{coll: db.Collection(InstructionsCollection)},
		Admins:       &adminRepo{coll: db.Collection(AdminsCollection)},
	}
}

// EnsureIndexes creates the unique indexes the repositories rely on.
// Safe to run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		ProblemsCollection: {
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		InstructionsCollection: {
			Keys:    bson.D{{Key: "problem_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		AdminsCollection: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}
	return nil
}

// toRecord converts a decoded BSON document into a codec record, replacing
// driver-specific container and date types with plain Go ones.
func toRecord(doc bson.M) codec.Record {
	out := make(codec.Record, len(doc))
	for k, v := range doc {
		out[k] = plain(v)
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case bson.M:
		return toRecord(x)
	case bson.D:
		return toRecord(x.Map())
	case bson.A:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = plain(item)
		}
		return out
	case primitive.DateTime:
		return x.Time().UTC()
	default:
		return v
	}
}

func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

// ─── Problems ──────────────────────────────────────────────────────────

type problemRepo struct {
	coll *mongo.Collection
}

func (r *problemRepo) Create(ctx context.Context, p model.Problem) error {
	_, err := r.coll.InsertOne(ctx, codec.EncodeProblem(p))
	return translate(err)
}

func (r *problemRepo) GetByID(ctx context.Context, id string) (model.Problem, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"id": id}, options.FindOne().SetProjection(withoutObjectID)).Decode(&doc)
	if err != nil {
		return model.Problem{}, translate(err)
	}
	return codec.DecodeProblem(toRecord(doc))
}

func problemQuery(f repository.ProblemFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Category != "" {
		q["category"] = string(f.Category)
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": pattern}},
			bson.M{"description": bson.M{"$regex": pattern}},
		}
	}
	return q
}

func (r *problemRepo) List(ctx context.Context, f repository.ProblemFilter) ([]model.Problem, error) {
	cursor, err := r.coll.Find(ctx, problemQuery(f), options.Find().SetProjection(withoutObjectID))
	if err != nil {
		return nil, fmt.Errorf("find problems: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read problems: %w", err)
	}

	out := make([]model.Problem, 0, len(docs))
	for _, doc := range docs {
		p, err := codec.DecodeProblem(toRecord(doc))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *problemRepo) Update(ctx context.Context, id string, ch repository.ProblemChanges) (model.Problem, error) {
	fields := ch.Fields()
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutObjectID)

	var doc bson.M
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)}, opts).Decode(&doc)
	if err != nil {
		return model.Problem{}, translate(err)
	}
	return codec.DecodeProblem(toRecord(doc))
}

func (r *problemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type bucket struct {
	Key string `bson:"_id"`
	N   int64  `bson:"n"`
}

type statsFacet struct {
	Total      []struct{ N int64 `bson:"n"` } `bson:"total"`
	ByStatus   []bucket                         `bson:"by_status"`
	ByCategory []bucket                         `bson:"by_category"`
}

// Stats runs a single $facet aggregation so every count comes from the same
// read.
func (r *problemRepo) Stats(ctx context.Context) (model.Stats, error) {
	groupBy := func(field string) bson.A {
		return bson.A{bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "n"}}}},
			{Key: "by_status", Value: groupBy("status")},
			{Key: "by_category", Value: groupBy("category")},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return model.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var facets []statsFacet
	if err := cursor.All(ctx, &facets); err != nil {
		return model.Stats{}, fmt.Errorf("read stats: %w", err)
	}

	stats := model.NewStats()
	if len(facets) == 0 {
		return stats, nil
	}
	f := facets[0]
	if len(f.Total) > 0 {
		stats.Total = f.Total[0].N
	}
	for _, b := range f.ByStatus {
		stats.ByStatus[model.ProblemStatus(b.Key)] = b.N
	}
	for _, b := range f.ByCategory {
		stats.ByCategory[model.Category(b.Key)] = b.N
	}
	return stats, nil
}

// ─── Instructions ──────────────────────────────────────────────────────

type instructionRepo struct {
	coll *mongo.Collection
}

func (r *instructionRepo) Upsert(ctx context.Context, in model.Instruction) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"problem_id": in.ProblemID},
		codec.EncodeInstruction(in),
		options.Replace().SetUpsert(true),
	)
	return translate(err)
}

func (r *instructionRepo) GetByProblem(ctx context.Context, problemID string) (model.Instruction, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"problem_id": problemID}, options.FindOne().SetProjection(withoutObjectID)).Decode(&doc)
	if err != nil {
		return model.Instruction{}, translate(err)
	}
	return codec.DecodeInstruction(toRecord(doc))
}

func (r *instructionRepo) DeleteByProblem(ctx context.Context, problemID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"problem_id": problemID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ─── Admins ────────────────────────────────────────────────────────────

type adminRepo struct {
	coll *mongo.Collection
}

func (r *adminRepo) List(ctx context.Context) ([]model.Admin, error) {
	opts := options.Find().
		SetProjection(withoutObjectID).
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(1000)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find admins: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read admins: %w", err)
	}

	out := make([]model.Admin, 0, len(docs))
	for _, doc := range docs {
		a, err := codec.DecodeAdmin(toRecord(doc))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *adminRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"email": email}, options.FindOne().SetProjection(withoutObjectID)).Decode(&doc)
	if err != nil {
		return model.Admin{}, translate(err)
	}
	return codec.DecodeAdmin(toRecord(doc))
}

func (r *adminRepo) Create(ctx context.Context, a model.Admin) error {
	_, err := r.coll.InsertOne(ctx, codec.EncodeAdmin(a))
	return translate(err)
}

func (r *adminRepo) DeleteByEmail(ctx context.Context, email string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// pingTimeout bounds the connectivity check done by Ping.
const pingTimeout = 5 * time.Second

// Ping checks that the server behind db answers.
func Ping(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.Client().Ping(ctx, nil)
}
