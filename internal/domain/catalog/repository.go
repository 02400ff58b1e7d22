package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const serviceColumns = `
	id, platform, name, description, price_per_thousand,
	min_quantity, max_quantity, eta, is_active, supplier_service_id,
	created_at, updated_at
`

// Repository is the PostgreSQL-backed catalog store
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Service, error) {
	services := []Service{}
	err := r.db.SelectContext(ctx, &services, `SELECT `+serviceColumns+` FROM services ORDER BY platform, name`)
	return services, err
}

func (r *Repository) ListActive(ctx context.Context) ([]Service, error) {
	services := []Service{}
	err := r.db.SelectContext(ctx, &services, `
		SELECT `+serviceColumns+` FROM services WHERE is_active = 1 ORDER BY platform, name
	`)
	return services, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var s Service
	err := r.db.GetContext(ctx, &s, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, s *Service) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (
			id, platform, name, description, price_per_thousand,
			min_quantity, max_quantity, eta, is_active, supplier_service_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		s.ID, s.Platform, s.Name, s.Description, s.PricePerThousand,
		s.MinQuantity, s.MaxQuantity, s.ETA, s.IsActive, s.SupplierServiceID,
	)
	return err
}

func (r *Repository) Update(ctx context.Context, s *Service) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services SET
			platform = $1, name = $2, description = $3, price_per_thousand = $4,
			min_quantity = $5, max_quantity = $6, eta = $7, is_active = $8,
			supplier_service_id = $9, updated_at = now()
		WHERE id = $10
	`,
		s.Platform, s.Name, s.Description, s.PricePerThousand,
		s.MinQuantity, s.MaxQuantity, s.ETA, s.IsActive,
		s.SupplierServiceID, s.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
