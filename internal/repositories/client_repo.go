package repositories

import (
	"context"

	"github.com/google/uuid"

	"gigpro/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	// GetByID is deliberately not owner-scoped: the API layer needs the
	// record's owner to distinguish 403 from 404.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientRepo struct {
	db Database
}

func NewClientRepo(db Database) ClientRepository {
	return &clientRepo{db: db}
}

const clientColumns = `id, user_id, name, email, phone, type, notes, tags, created_at, updated_at`

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, email, phone, type, notes, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, client.ID, client.UserID, client.Name, client.Email, client.Phone, client.Type, client.Notes, client.Tags)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&client.ID, &client.UserID, &client.Name, &client.Email, &client.Phone, &client.Type, &client.Notes, &client.Tags, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return client, nil
}

func (r *clientRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(&client.ID, &client.UserID, &client.Name, &client.Email, &client.Phone, &client.Type, &client.Notes, &client.Tags, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, type = $4, notes = $5, tags = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, client.Name, client.Email, client.Phone, client.Type, client.Notes, client.Tags, client.ID)
	return err
}

func (r *clientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
