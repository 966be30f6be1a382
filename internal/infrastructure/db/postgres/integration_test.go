//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/baechuer/lease-service/internal/domain"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := testcontainers.NewDockerClientWithOpts(ctx); err != nil {
		t.Skipf("Skipping integration test because Docker is unavailable: %v", err)
	}

	ctr, err := tcpostgres.Run(ctx, "postgres:17",
		tcpostgres.WithDatabase("leases"),
		tcpostgres.WithUsername("lease"),
		tcpostgres.WithPassword("lease"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := ctr.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestIntegration_ConcurrentUpdateStatus_SingleWinner(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	users := NewUserRepo(db)
	vehicles := NewVehicleRepo(db)
	leases := NewLeaseRepo(db)

	v := domain.Vehicle{ID: uuid.NewString(), Brand: "Toyota", Model: "Corolla", Price: 24000, Available: true}
	require.NoError(t, vehicles.Upsert(ctx, v))

	u, err := users.Create(ctx, domain.User{ID: uuid.NewString(), Name: "A", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = users.Create(ctx, domain.User{ID: uuid.NewString(), Name: "B", Email: "A@X.com", PasswordHash: "h"})
	assert.True(t, domain.Is(err, "email_already_exists"), "got %v", err)

	l, err := domain.NewLease(uuid.NewString(), u.ID, v.ID, 36, 1000, time.Now())
	require.NoError(t, err)
	_, err = leases.Create(ctx, l)
	require.NoError(t, err)

	const workers = 20
	var (
		wg      sync.WaitGroup
		applied atomic.Int32
		start   = make(chan struct{})
	)
	for i := 0; i < workers; i++ {
		status := domain.LeaseStatusApproved
		if i%2 == 1 {
			status = domain.LeaseStatusRejected
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := leases.UpdateStatus(ctx, l.ID, status)
			assert.NoError(t, err)
			if ok {
				applied.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), applied.Load())

	got, err := leases.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.Lease.Status.IsTerminal())
	assert.NotNil(t, got.Lease.DecidedAt)
	assert.Equal(t, 1000.0, got.Lease.DownPayment)
	assert.Equal(t, "Corolla", got.Vehicle.Model)

	_, err = leases.FindByID(ctx, "not-a-uuid")
	assert.True(t, domain.Is(err, "lease_not_found"), "got %v", err)

	mine, err := leases.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
