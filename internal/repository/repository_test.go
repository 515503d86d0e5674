package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/persistence"
	"github.com/spec-kit/support-agent/internal/repository"
)

// startPostgres runs a throwaway Postgres with the service migrations applied.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "support",
			"POSTGRES_USER":     "support",
			"POSTGRES_PASSWORD": "support",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("Terminate() error = %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Host() error = %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("MappedPort() error = %v", err)
	}
	dsn := fmt.Sprintf("postgres://support:support@%s:%s/support?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New() error = %v", err)
	}
	t.Cleanup(pool.Close)

	if err := persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return pool
}

func TestRepositories(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	t.Run("order found", func(t *testing.T) {
		order, err := repository.NewOrderRepository(pool).GetByID(ctx, "12345")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if order.ID != "12345" {
			t.Errorf("ID = %q, want 12345", order.ID)
		}
		if order.Status != domain.OrderStatusShipped {
			t.Errorf("Status = %q, want shipped", order.Status)
		}
		if order.TotalAmount != 299.99 {
			t.Errorf("TotalAmount = %v, want 299.99", order.TotalAmount)
		}
	})

	t.Run("order missing", func(t *testing.T) {
		_, err := repository.NewOrderRepository(pool).GetByID(ctx, "00000")
		if !errors.Is(err, pgx.ErrNoRows) {
			t.Fatalf("err = %v, want pgx.ErrNoRows", err)
		}
	})

	t.Run("inventory", func(t *testing.T) {
		repo := repository.NewInventoryRepository(pool)
		item, err := repo.GetByProductID(ctx, "ABC")
		if err != nil {
			t.Fatalf("GetByProductID() error = %v", err)
		}
		if item.InStock() {
			t.Error("ABC should be out of stock")
		}
		if item.NextRestock == nil {
			t.Error("ABC should carry a restock date")
		}
		if _, err := repo.GetByProductID(ctx, "nope"); !errors.Is(err, pgx.ErrNoRows) {
			t.Errorf("err = %v, want pgx.ErrNoRows", err)
		}
	})

	t.Run("ticket create and duplicate", func(t *testing.T) {
		repo := repository.NewTicketRepository(pool)
		ticket := &domain.Ticket{
			ID:            "TKT-20240101120000",
			CustomerEmail: "jane@example.com",
			Issue:         "refund missing",
			Priority:      domain.TicketPriorityHigh,
			Status:        domain.TicketStatusOpen,
		}
		if err := repo.Create(ctx, ticket); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if ticket.CreatedAt.IsZero() {
			t.Error("CreatedAt not populated")
		}
		got, err := repo.GetByID(ctx, ticket.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Status != domain.TicketStatusOpen || got.CustomerEmail != "jane@example.com" {
			t.Errorf("unexpected ticket %+v", got)
		}

		dup := *ticket
		if err := repo.Create(ctx, &dup); !errors.Is(err, repository.ErrDuplicateTicketID) {
			t.Errorf("duplicate Create() err = %v, want ErrDuplicateTicketID", err)
		}
	})

	t.Run("ticket status and history", func(t *testing.T) {
		repo := repository.NewTicketRepository(pool)
		history := repository.NewTicketHistoryRepository(pool)
		ticket := &domain.Ticket{
			ID:            "TKT-20240101130000",
			CustomerEmail: "joe@example.com",
			Issue:         "wrong size",
			Priority:      domain.TicketPriorityLow,
			Status:        domain.TicketStatusOpen,
		}
		if err := repo.Create(ctx, ticket); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		change := &domain.TicketHistory{
			TicketID:  ticket.ID,
			ChangedBy: "ops",
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusResolved,
		}
		if err := repo.TransitionStatus(ctx, change); err != nil {
			t.Fatalf("TransitionStatus() error = %v", err)
		}
		if change.ID == 0 || change.CreatedAt.IsZero() {
			t.Errorf("history entry not populated: %+v", change)
		}

		stale := &domain.TicketHistory{
			TicketID:  ticket.ID,
			ChangedBy: "ops-2",
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusInProgress,
		}
		if err := repo.TransitionStatus(ctx, stale); !errors.Is(err, repository.ErrStaleStatus) {
			t.Errorf("stale TransitionStatus() err = %v, want ErrStaleStatus", err)
		}
		missing := &domain.TicketHistory{TicketID: "TKT-missing", OldStatus: domain.TicketStatusOpen, NewStatus: domain.TicketStatusClosed}
		if err := repo.TransitionStatus(ctx, missing); !errors.Is(err, pgx.ErrNoRows) {
			t.Errorf("TransitionStatus(missing) err = %v, want pgx.ErrNoRows", err)
		}

		got, err := repo.GetByID(ctx, ticket.ID)
		if err != nil || got.Status != domain.TicketStatusResolved {
			t.Fatalf("GetByID() = %+v, %v", got, err)
		}
		entries, err := history.ListByTicket(ctx, ticket.ID)
		if err != nil || len(entries) != 1 || entries[0].ChangedBy != "ops" {
			t.Fatalf("ListByTicket() = %+v, %v", entries, err)
		}

		resolved := domain.TicketStatusResolved
		list, err := repo.List(ctx, repository.TicketFilter{Status: &resolved})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 1 || list[0].ID != ticket.ID {
			t.Errorf("List(resolved) = %+v", list)
		}
		all, err := repo.List(ctx, repository.TicketFilter{Limit: 1})
		if err != nil || len(all) != 1 {
			t.Errorf("List(limit 1) = %+v, %v", all, err)
		}
		wide, err := repo.List(ctx, repository.TicketFilter{Limit: 500, Offset: -3})
		if err != nil || len(wide) != 2 {
			t.Errorf("List(limit 500, offset -3) = %+v, %v", wide, err)
		}
	})
}

func TestNilPoolIsNotConfigured(t *testing.T) {
	ctx := context.Background()
	if _, err := repository.NewOrderRepository(nil).GetByID(ctx, "1"); !errors.Is(err, repository.ErrNotConfigured) {
		t.Errorf("orders err = %v", err)
	}
	if _, err := repository.NewInventoryRepository(nil).GetByProductID(ctx, "1"); !errors.Is(err, repository.ErrNotConfigured) {
		t.Errorf("inventory err = %v", err)
	}
	if err := repository.NewTicketRepository(nil).Create(ctx, &domain.Ticket{}); !errors.Is(err, repository.ErrNotConfigured) {
		t.Errorf("tickets err = %v", err)
	}
	if _, err := repository.NewTicketHistoryRepository(nil).ListByTicket(ctx, "x"); !errors.Is(err, repository.ErrNotConfigured) {
		t.Errorf("history err = %v", err)
	}
}
