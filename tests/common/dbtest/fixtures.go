//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestFacility(t *testing.T, db DBLike, name string, adminID uuid.UUID) uuid.UUID {
	t.Helper()

	facilityID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO facilities (id, name, admin_id) VALUES ($1, $2, $3)",
		facilityID, name, adminID)
	require.NoError(t, err)

	return facilityID
}

func CreateTestSlot(t *testing.T, db DBLike, facilityID uuid.UUID, slotType string, hourlyRateCents int64) uuid.UUID {
	t.Helper()

	slotID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO slots (id, facility_id, slot_type, display_status, hourly_rate_cents, location_tag, created_at, updated_at)
		VALUES ($1, $2, $3, 'Free', $4, '', now(), now())`,
		slotID, facilityID, slotType, hourlyRateCents)
	require.NoError(t, err)

	return slotID
}

func CreateTestReservation(t *testing.T, db DBLike, userID, slotID uuid.UUID, start, end time.Time, status string) uuid.UUID {
	t.Helper()

	reservationID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO reservations (id, user_id, slot_id, start_time, end_time, status, total_amount_cents, payment_status, vehicle_tag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 'Pending', '', now(), now())`,
		reservationID, userID, slotID, start, end, status)
	require.NoError(t, err)

	return reservationID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
