package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
)

type organisationsRepo struct {
	q   *queries
	now func() time.Time
}

func (r *organisationsRepo) CreateOrganisation(ctx context.Context, o domain.Organisation) error {
	now := r.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	return mapConstraint(r.q.CreateOrganisation(ctx, organisationRow{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		OwnerID:     o.OwnerID,
		CreatedAt:   toMillis(o.CreatedAt),
		UpdatedAt:   toMillis(now),
	}))
}

func (r *organisationsRepo) GetOrganisationByID(ctx context.Context, id string) (domain.Organisation, error) {
	row, err := r.q.GetOrganisationByID(ctx, id)
	if err != nil {
		return domain.Organisation{}, mapNotFound(err)
	}
	return mapOrganisation(row), nil
}

func (r *organisationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Organisation, error) {
	rows, err := r.q.ListOrganisationsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Organisation, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapOrganisation(row))
	}
	return out, nil
}

func (r *organisationsRepo) UpdateDetails(ctx context.Context, id, name, description string) error {
	n, err := r.q.UpdateOrganisationDetails(ctx, id, name, description, toMillis(r.now()))
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
