package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gigpro/internal/models"
)

type GigRepository interface {
	Create(ctx context.Context, gig *models.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Gig, error)
	// ListByDateRange returns the user's gigs with start <= date < end,
	// ascending by date. Callers build UTC month windows from it.
	ListByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.Gig, error)
	ListUpcoming(ctx context.Context, userID uuid.UUID, after time.Time, limit int) ([]*models.Gig, error)
	ListRemindersDue(ctx context.Context, from, to time.Time) ([]*models.Gig, error)
	CountByClient(ctx context.Context, userID, clientID uuid.UUID) (int, error)
	Update(ctx context.Context, gig *models.Gig) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gigRepo struct {
	db Database
}

func NewGigRepo(db Database) GigRepository {
	return &gigRepo{db: db}
}

const gigColumns = `id, user_id, client_id, title, date, start_time, end_time, location, fee, notes, reminder_set, created_at, updated_at`

func (r *gigRepo) Create(ctx context.Context, gig *models.Gig) error {
	query := `
		INSERT INTO gigs (id, user_id, client_id, title, date, start_time, end_time, location, fee, notes, reminder_set, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, gig.ID, gig.UserID, gig.ClientID, gig.Title, gig.Date, gig.StartTime, gig.EndTime, gig.Location, gig.Fee, gig.Notes, gig.ReminderSet)
	return err
}

func (r *gigRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	gig := &models.Gig{}
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&gig.ID, &gig.UserID, &gig.ClientID, &gig.Title, &gig.Date, &gig.StartTime, &gig.EndTime, &gig.Location, &gig.Fee, &gig.Notes, &gig.ReminderSet, &gig.CreatedAt, &gig.UpdatedAt)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return gig, nil
}

func (r *gigRepo) queryGigs(ctx context.Context, query string, args ...any) ([]*models.Gig, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gigs []*models.Gig
	for rows.Next() {
		gig := &models.Gig{}
		if err := rows.Scan(&gig.ID, &gig.UserID, &gig.ClientID, &gig.Title, &gig.Date, &gig.StartTime, &gig.EndTime, &gig.Location, &gig.Fee, &gig.Notes, &gig.ReminderSet, &gig.CreatedAt, &gig.UpdatedAt); err != nil {
			return nil, err
		}
		gigs = append(gigs, gig)
	}
	return gigs, rows.Err()
}

func (r *gigRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE user_id = $1 ORDER BY date ASC`
	return r.queryGigs(ctx, query, userID)
}

func (r *gigRepo) ListByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.Gig, error) {
	query := `
		SELECT ` + gigColumns + `
		FROM gigs
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
	`
	return r.queryGigs(ctx, query, userID, start, end)
}

func (r *gigRepo) ListUpcoming(ctx context.Context, userID uuid.UUID, after time.Time, limit int) ([]*models.Gig, error) {
	query := `
		SELECT ` + gigColumns + `
		FROM gigs
		WHERE user_id = $1 AND date >= $2
		ORDER BY date ASC
		LIMIT $3
	`
	return r.queryGigs(ctx, query, userID, after, limit)
}

func (r *gigRepo) ListRemindersDue(ctx context.Context, from, to time.Time) ([]*models.Gig, error) {
	query := `
		SELECT ` + gigColumns + `
		FROM gigs
		WHERE reminder_set = TRUE AND date >= $1 AND date < $2
		ORDER BY date ASC
	`
	return r.queryGigs(ctx, query, from, to)
}

func (r *gigRepo) CountByClient(ctx context.Context, userID, clientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM gigs WHERE user_id = $1 AND client_id = $2`
	if err := r.db.QueryRow(ctx, query, userID, clientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gigRepo) Update(ctx context.Context, gig *models.Gig) error {
	query := `
		UPDATE gigs
		SET client_id = $1, title = $2, date = $3, start_time = $4, end_time = $5, location = $6, fee = $7, notes = $8, reminder_set = $9, updated_at = NOW()
		WHERE id = $10
	`
	_, err := r.db.Exec(ctx, query, gig.ClientID, gig.Title, gig.Date, gig.StartTime, gig.EndTime, gig.Location, gig.Fee, gig.Notes, gig.ReminderSet, gig.ID)
	return err
}

func (r *gigRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM gigs WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
