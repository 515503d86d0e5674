package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-agent/internal/domain"
)

var (
	// ErrDuplicateTicketID is returned when the generated ticket id already exists.
	ErrDuplicateTicketID = errors.New("ticket id already exists")
	// ErrStaleStatus is returned when a ticket no longer has the status a
	// transition was checked against.
	ErrStaleStatus = errors.New("ticket status changed concurrently")
)

// MaxListLimit caps a single ticket listing page.
const MaxListLimit = 200

// TicketFilter narrows ticket listings. Zero values mean no filter.
type TicketFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Limit    int
	Offset   int
}

// TicketRepository stores support tickets. Tickets are never deleted.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	TransitionStatus(ctx context.Context, change *domain.TicketHistory) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if r.pool == nil {
		return ErrNotConfigured
	}
	const query = `
        INSERT INTO tickets (ticket_id, customer_email, issue, priority, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.CustomerEmail,
		ticket.Issue,
		ticket.Priority,
		ticket.Status,
	).Scan(&ticket.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateTicketID
	}
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if r.pool == nil {
		return nil, ErrNotConfigured
	}
	const query = `
        SELECT ticket_id, customer_email, issue, priority, status, created_at
        FROM tickets WHERE ticket_id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CustomerEmail,
		&ticket.Issue,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	if r.pool == nil {
		return nil, ErrNotConfigured
	}
	var (
		clauses []string
		args    []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	query := `
        SELECT ticket_id, customer_email, issue, priority, status, created_at
        FROM tickets`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	limit := filter.Limit
	switch {
	case limit <= 0:
		limit = 50
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, ticket_id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CustomerEmail,
			&ticket.Issue,
			&ticket.Priority,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

// TransitionStatus moves change.TicketID from change.OldStatus to
// change.NewStatus and stores change as a history entry, both in one
// transaction. pgx.ErrNoRows means the ticket does not exist and
// ErrStaleStatus means its status moved on since it was read.
func (r *ticketRepository) TransitionStatus(ctx context.Context, change *domain.TicketHistory) error {
	if r.pool == nil {
		return ErrNotConfigured
	}
	const update = `UPDATE tickets SET status=$3 WHERE ticket_id=$1 AND status=$2`
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, update, change.TicketID, change.OldStatus, change.NewStatus)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var current domain.TicketStatus
			err := tx.QueryRow(ctx, `SELECT status FROM tickets WHERE ticket_id=$1`, change.TicketID).Scan(&current)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: %s is %s", ErrStaleStatus, change.TicketID, current)
		}
		return insertTicketHistory(ctx, tx, change)
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
