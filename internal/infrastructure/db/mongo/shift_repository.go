package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/buscaroli/shifts-api/internal/core/domain"
)

const collectionShifts = "shifts"

type ShiftRepository struct {
	col *mongo.Collection
}

func NewShiftRepository(db *mongo.Database) *ShiftRepository {
	return &ShiftRepository{col: db.Collection(collectionShifts)}
}

type shiftDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Where       string             `bson:"where"`
	When        time.Time          `bson:"when"`
	Billed      float64            `bson:"billed"`
	Description string             `bson:"description"`
	Paid        bool               `bson:"paid"`
	Owner       primitive.ObjectID `bson:"owner"`
}

func toShiftDoc(s *domain.Shift) (shiftDoc, error) {
	owner, ok := objectID(s.Owner)
	if !ok {
		return shiftDoc{}, domain.Invalid("owner is not a valid id")
	}
	return shiftDoc{
		Where:       s.Where,
		When:        s.When.UTC(),
		Billed:      s.Billed,
		Description: s.Description,
		Paid:        s.Paid,
		Owner:       owner,
	}, nil
}

func (d shiftDoc) toDomain() *domain.Shift {
	return &domain.Shift{
		ID:          d.ID.Hex(),
		Where:       d.Where,
		When:        d.When.UTC(),
		Billed:      d.Billed,
		Description: d.Description,
		Paid:        d.Paid,
		Owner:       d.Owner.Hex(),
	}
}

func (r *ShiftRepository) Create(ctx context.Context, s *domain.Shift) (*domain.Shift, error) {
	doc, err := toShiftDoc(s)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert shift: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*domain.Shift, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrShiftNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc shiftDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, fmt.Errorf("find shift: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns the owner's shifts, most recent day first.
func (r *ShiftRepository) List(ctx context.Context, filter domain.ShiftFilter) ([]*domain.Shift, error) {
	query, ok := shiftListFilter(filter)
	if !ok {
		return []*domain.Shift{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "when", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []shiftDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode shifts: %w", err)
	}

	out := make([]*domain.Shift, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update applies changes to the shift only when it belongs to owner.
func (r *ShiftRepository) Update(ctx context.Context, id, owner string, changes domain.ShiftChanges) (*domain.Shift, error) {
	filter, ok := ownedShiftFilter(id, owner)
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	set := shiftChangesToSet(changes)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc shiftDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, fmt.Errorf("update shift: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the shift only when it belongs to owner.
func (r *ShiftRepository) Delete(ctx context.Context, id, owner string) error {
	filter, ok := ownedShiftFilter(id, owner)
	if !ok {
		return domain.ErrShiftNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrShiftNotFound
	}
	return nil
}

func (r *ShiftRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	oid, ok := objectID(owner)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"owner": oid})
	if err != nil {
		return 0, fmt.Errorf("delete shifts by owner: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the owner index used by every shift query.
func (r *ShiftRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "when", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "paid", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func shiftListFilter(f domain.ShiftFilter) (bson.M, bool) {
	owner, ok := objectID(f.Owner)
	if !ok {
		return nil, false
	}
	query := bson.M{"owner": owner}
	if f.Paid != nil {
		query["paid"] = *f.Paid
	}
	return query, true
}

func ownedShiftFilter(id, owner string) (bson.M, bool) {
	oid, ok := objectID(id)
	if !ok {
		return nil, false
	}
	ownerID, ok := objectID(owner)
	if !ok {
		return nil, false
	}
	return bson.M{"_id": oid, "owner": ownerID}, true
}

func shiftChangesToSet(c domain.ShiftChanges) bson.M {
	set := bson.M{}
	if c.Where != nil {
		set["where"] = *c.Where
	}
	if c.When != nil {
		set["when"] = c.When.UTC()
	}
	if c.Billed != nil {
		set["billed"] = *c.Billed
	}
	if c.Description != nil {
		set["description"] = *c.Description
	}
	if c.Paid != nil {
		set["paid"] = *c.Paid
	}
	return set
}
