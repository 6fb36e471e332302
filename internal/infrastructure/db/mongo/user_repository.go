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

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type tokenDoc struct {
	Token string `bson:"token"`
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Joined   time.Time          `bson:"joined"`
	Tokens   []tokenDoc         `bson:"tokens"`
}

func toUserDoc(u *domain.User) userDoc {
	doc := userDoc{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.PasswordHash,
		Joined:   u.Joined.UTC(),
		Tokens:   make([]tokenDoc, 0, len(u.Tokens)),
	}
	for _, t := range u.Tokens {
		doc.Tokens = append(doc.Tokens, tokenDoc{Token: t})
	}
	return doc
}

func (d userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Joined:       d.Joined.UTC(),
		Tokens:       make([]string, 0, len(d.Tokens)),
	}
	for _, t := range d.Tokens {
		u.Tokens = append(u.Tokens, t.Token)
	}
	return u
}

// Create inserts a new user. The unique email index turns a second signup
// with the same address into domain.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDoc(user)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByIDAndToken matches the user only while token is still stored.
func (r *UserRepository) FindByIDAndToken(ctx context.Context, id, token string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "tokens.token": token})
}

func (r *UserRepository) AddToken(ctx context.Context, id, token string) (*domain.User, error) {
	return r.updateOne(ctx, id, bson.M{"$push": bson.M{"tokens": tokenDoc{Token: token}}})
}

func (r *UserRepository) RemoveToken(ctx context.Context, id, token string) (*domain.User, error) {
	return r.updateOne(ctx, id, bson.M{"$pull": bson.M{"tokens": bson.M{"token": token}}})
}

func (r *UserRepository) ClearTokens(ctx context.Context, id string) (*domain.User, error) {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"tokens": bson.A{}}})
}

// Update writes only the submitted profile fields.
func (r *UserRepository) Update(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error) {
	set := userChangesToSet(changes)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	u, err := r.updateOne(ctx, id, bson.M{"$set": set})
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil, domain.ErrEmailTaken
	}
	return u, err
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index and the token lookup index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "_id", Value: 1}, {Key: "tokens.token", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) updateOne(ctx context.Context, id string, update bson.M) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

func userChangesToSet(c domain.UserChanges) bson.M {
	set := bson.M{}
	if c.Name != nil {
		set["name"] = *c.Name
	}
	if c.Email != nil {
		set["email"] = *c.Email
	}
	if c.PasswordHash != nil {
		set["password"] = *c.PasswordHash
	}
	return set
}
