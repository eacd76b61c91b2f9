package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type organisationDoc struct {
	ID          string    `bson:"id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	OwnerID     string    `bson:"ownerId"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func (d organisationDoc) toDomain() domain.Organisation {
	return domain.Organisation{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type organisationsRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (r *organisationsRepo) CreateOrganisation(ctx context.Context, o domain.Organisation) error {
	now := r.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	_, err := r.coll.InsertOne(ctx, organisationDoc{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		OwnerID:     o.OwnerID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   now,
	})
	return mapDuplicate(err)
}

func (r *organisationsRepo) GetOrganisationByID(ctx context.Context, id string) (domain.Organisation, error) {
	var doc organisationDoc
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		return domain.Organisation{}, mapNotFound(err)
	}
	return doc.toDomain(), nil
}

func (r *organisationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Organisation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []organisationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Organisation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *organisationsRepo) UpdateDetails(ctx context.Context, id, name, description string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"name": name, "description": description, "updatedAt": r.now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
