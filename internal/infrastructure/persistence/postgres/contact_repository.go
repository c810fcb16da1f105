package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/domain"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

const contactColumns = `id, user_id, first_name, last_name, email, phone, birth_date, additional_data, created_at`

const (
	createContactSQL = `INSERT INTO contacts (id, user_id, first_name, last_name, email, phone, birth_date, additional_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	getContactByIDSQL = `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 AND id = $2`
	listContactsSQL   = `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY created_at, id OFFSET $2 LIMIT $3`
	byFirstNameSQL    = `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 AND first_name = $2 ORDER BY created_at, id`
	byLastNameSQL     = `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 AND last_name = $2 ORDER BY created_at, id`
	byEmailSQL        = `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 AND email = $2`
	updateContactSQL  = `UPDATE contacts SET first_name = $1, last_name = $2, email = $3, phone = $4, birth_date = $5, additional_data = $6
		WHERE user_id = $7 AND id = $8`
	deleteContactSQL = `DELETE FROM contacts WHERE user_id = $1 AND id = $2`
	// Month-day window; does not wrap across the year boundary.
	upcomingBirthdaysSQL = `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1
		AND to_char(birth_date, 'MMDD') >= $2
		AND to_char(birth_date, 'MMDD') <= $3
		ORDER BY to_char(birth_date, 'MMDD')`
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	_, err := r.pool.Exec(ctx, createContactSQL,
		c.ID.UUID, c.UserID.UUID, c.FirstName, c.LastName, c.Email, c.Phone,
		c.BirthDate, c.AdditionalData, c.CreatedAt)
	return err
}

func (r *ContactRepository) GetByID(ctx context.Context, userID domain.UserID, id domain.ContactID) (*domain.Contact, error) {
	return r.one(ctx, getContactByIDSQL, userID.UUID, id.UUID)
}

func (r *ContactRepository) List(ctx context.Context, userID domain.UserID, skip, limit int) ([]*domain.Contact, error) {
	return r.many(ctx, listContactsSQL, userID.UUID, skip, limit)
}

func (r *ContactRepository) SearchByFirstName(ctx context.Context, userID domain.UserID, firstName string) ([]*domain.Contact, error) {
	return r.many(ctx, byFirstNameSQL, userID.UUID, firstName)
}

func (r *ContactRepository) SearchByLastName(ctx context.Context, userID domain.UserID, lastName string) ([]*domain.Contact, error) {
	return r.many(ctx, byLastNameSQL, userID.UUID, lastName)
}

func (r *ContactRepository) GetByEmail(ctx context.Context, userID domain.UserID, email string) (*domain.Contact, error) {
	return r.one(ctx, byEmailSQL, userID.UUID, email)
}

func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	tag, err := r.pool.Exec(ctx, updateContactSQL,
		c.FirstName, c.LastName, c.Email, c.Phone, c.BirthDate,
		c.AdditionalData, c.UserID.UUID, c.ID.UUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, userID domain.UserID, id domain.ContactID) error {
	tag, err := r.pool.Exec(ctx, deleteContactSQL, userID.UUID, id.UUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, userID domain.UserID, today time.Time) ([]*domain.Contact, error) {
	from := today.Format("0102")
	to := today.AddDate(0, 0, 7).Format("0102")
	return r.many(ctx, upcomingBirthdaysSQL, userID.UUID, from, to)
}

func (r *ContactRepository) one(ctx context.Context, sql string, args ...any) (*domain.Contact, error) {
	row := r.pool.QueryRow(ctx, sql, args...)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) many(ctx context.Context, sql string, args ...any) ([]*domain.Contact, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	if err := row.Scan(&c.ID.UUID, &c.UserID.UUID, &c.FirstName, &c.LastName,
		&c.Email, &c.Phone, &c.BirthDate, &c.AdditionalData, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

var _ ports.ContactRepository = (*ContactRepository)(nil)
