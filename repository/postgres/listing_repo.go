package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/repository"
)

type listingRepository struct {
	pool *pgxpool.Pool
}

// NewListingRepository returns a Postgres-backed implementation of ListingRepository.
func NewListingRepository(pool *pgxpool.Pool) repository.ListingRepository {
	return &listingRepository{pool: pool}
}

const listingColumns = `id, donor_id, receiver_id, title, quantity, location, expiry_time,
	description, image, pickup_location, special_instructions, status, created_at, updated_at, claimed_at`

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	const query = `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return scanListing(r.pool.QueryRow(ctx, query, id))
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if listing == nil {
		return nil, domain.ErrInvalidPayload
	}
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	listing.Status = domain.StatusAvailable

	const query = `
	INSERT INTO listings (id, donor_id, title, quantity, location, expiry_time,
		description, image, pickup_location, special_instructions, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		listing.ID,
		listing.DonorID,
		listing.Title,
		listing.Quantity,
		listing.Location,
		listing.ExpiryTime,
		listing.Description,
		listing.Image,
		listing.PickupLocation,
		listing.SpecialInstructions,
		string(listing.Status),
	).Scan(&listing.CreatedAt, &listing.UpdatedAt); err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	if listing == nil {
		return domain.ErrInvalidPayload
	}

	// Content fields only; the lifecycle triple is owned by ClaimIfAvailable.
	const query = `
	UPDATE listings
	SET title = $2,
		quantity = $3,
		location = $4,
		expiry_time = $5,
		description = $6,
		image = $7,
		pickup_location = $8,
		special_instructions = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		listing.ID,
		listing.Title,
		listing.Quantity,
		listing.Location,
		listing.ExpiryTime,
		listing.Description,
		listing.Image,
		listing.PickupLocation,
		listing.SpecialInstructions,
	).Scan(&listing.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrListingNotFound
		}
		return err
	}
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM listings WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *listingRepository) ListAvailable(ctx context.Context) ([]domain.Listing, error) {
	const query = `SELECT ` + listingColumns + `
	FROM listings
	WHERE status = 'available'
	ORDER BY created_at DESC`
	return r.queryListings(ctx, query)
}

func (r *listingRepository) ListByDonor(ctx context.Context, donorID string) ([]domain.Listing, error) {
	const query = `SELECT ` + listingColumns + `
	FROM listings
	WHERE donor_id = $1
	ORDER BY created_at DESC`
	return r.queryListings(ctx, query, donorID)
}

func (r *listingRepository) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Listing, error) {
	const query = `SELECT ` + listingColumns + `
	FROM listings
	WHERE receiver_id = $1 AND status = 'claimed'
	ORDER BY claimed_at DESC`
	return r.queryListings(ctx, query, receiverID)
}

func (r *listingRepository) ListAll(ctx context.Context) ([]domain.Listing, error) {
	const query = `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC`
	return r.queryListings(ctx, query)
}

// ClaimIfAvailable is the single write path for the lifecycle triple. The
// WHERE clause carries the compare-and-swap: the row is updated only if its
// status is still available at write time, so concurrent claimants racing on
// the same snapshot cannot both win. Postgres row locking linearizes the
// contenders; everyone but the winner matches zero rows.
func (r *listingRepository) ClaimIfAvailable(ctx context.Context, id, receiverID string, claimedAt time.Time) (*domain.Listing, error) {
	const query = `
	UPDATE listings
	SET status = 'claimed',
		receiver_id = $2,
		claimed_at = $3,
		updated_at = NOW()
	WHERE id = $1 AND status = 'available'
	RETURNING ` + listingColumns

	listing, err := scanListing(r.pool.QueryRow(ctx, query, id, receiverID, claimedAt))
	if err == nil {
		return listing, nil
	}
	if !errors.Is(err, domain.ErrListingNotFound) {
		return nil, err
	}

	// Zero rows matched: either the listing does not exist or another
	// claimant won the race. Re-read to tell the two apart.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrAlreadyClaimed
}

func (r *listingRepository) queryListings(ctx context.Context, query string, args ...interface{}) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

func scanListing(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Listing, error) {
	var listing domain.Listing
	var (
		receiverID *string
		status     string
		claimedAt  *time.Time
	)

	if err := row.Scan(
		&listing.ID,
		&listing.DonorID,
		&receiverID,
		&listing.Title,
		&listing.Quantity,
		&listing.Location,
		&listing.ExpiryTime,
		&listing.Description,
		&listing.Image,
		&listing.PickupLocation,
		&listing.SpecialInstructions,
		&status,
		&listing.CreatedAt,
		&listing.UpdatedAt,
		&claimedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	if receiverID != nil {
		listing.ReceiverID = *receiverID
	}
	listing.Status = domain.ListingStatus(status)
	listing.ClaimedAt = claimedAt
	return &listing, nil
}
