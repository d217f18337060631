package repositories

import (
	"context"

	"github.com/google/uuid"

	"gigpro/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, stage_name, phone, location, business_name, tax_id, business_address, website, payment_terms, payment_method, payment_instructions, logo_url, created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, stage_name, phone, location, business_name, tax_id, business_address, website, payment_terms, payment_method, payment_instructions, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.StageName, user.Phone, user.Location, user.BusinessName, user.TaxID, user.BusinessAddress, user.Website, user.PaymentTerms, user.PaymentMethod, user.PaymentInstructions, user.LogoURL)
	return err
}

func (r *userRepo) scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.StageName, &user.Phone, &user.Location, &user.BusinessName, &user.TaxID, &user.BusinessAddress, &user.Website, &user.PaymentTerms, &user.PaymentMethod, &user.PaymentInstructions, &user.LogoURL, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $1, stage_name = $2, phone = $3, location = $4, business_name = $5, tax_id = $6, business_address = $7, website = $8, payment_terms = $9, payment_method = $10, payment_instructions = $11, logo_url = $12, updated_at = NOW()
		WHERE id = $13
	`
	_, err := r.db.Exec(ctx, query, user.Email, user.StageName, user.Phone, user.Location, user.BusinessName, user.TaxID, user.BusinessAddress, user.Website, user.PaymentTerms, user.PaymentMethod, user.PaymentInstructions, user.LogoURL, user.ID)
	return err
}
