package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"limpiabnb-backend/internal/model"
)

// newTestStore opens a fresh in-memory sqlite database per test.
func newTestStore(t *testing.T) Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Property{},
		&model.CalendarFeed{},
		&model.Reservation{},
		&model.InventoryItem{},
		&model.Profile{},
	))

	return NewGormStore(db)
}

func seedReservation(t *testing.T, s Store, id, propertyID, sourceID, code string) {
	t.Helper()
	r := model.Reservation{
		ID:              id,
		PropertyID:      propertyID,
		SourceID:        sourceID,
		ReservationCode: code,
		GuestName:       "SEED GUEST",
		CheckIn:         "2024-05-01",
		CheckOut:        "2024-05-03",
		Status:          model.StatusUpcoming,
	}
	require.NoError(t, s.MergeReservationsByCode(context.Background(), []model.Reservation{r}))
}

func idsOf(reservations []model.Reservation) []string {
	ids := make([]string, len(reservations))
	for i, r := range reservations {
		ids[i] = r.ID
	}
	return ids
}

func TestReplaceFeedReservations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedReservation(t, s, "manual-1", "p-1", model.SourceManual, "")
	seedReservation(t, s, "feed-a-old", "p-1", "feed-a", "OLD1")
	seedReservation(t, s, "feed-b-1", "p-1", "feed-b", "B1")

	incoming := []model.Reservation{
		{ID: "feed-a-new-1", PropertyID: "p-1", SourceID: "feed-a", CheckIn: "2024-06-01", CheckOut: "2024-06-03", Status: model.StatusUpcoming},
		{ID: "feed-a-new-2", PropertyID: "p-1", SourceID: "feed-a", CheckIn: "2024-06-05", CheckOut: "2024-06-08", Status: model.StatusUpcoming},
	}
	require.NoError(t, s.ReplaceFeedReservations(ctx, "feed-a", incoming))

	all, err := s.ListReservations(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"manual-1", "feed-b-1", "feed-a-new-1", "feed-a-new-2"}, idsOf(all))
}

func TestReplaceFeedReservations_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	incoming := []model.Reservation{
		{ID: "real-feed-a-20240601-1", PropertyID: "p-1", SourceID: "feed-a", CheckIn: "2024-06-01", CheckOut: "2024-06-03", Status: model.StatusUpcoming},
	}
	require.NoError(t, s.ReplaceFeedReservations(ctx, "feed-a", incoming))
	require.NoError(t, s.ReplaceFeedReservations(ctx, "feed-a", incoming))

	all, err := s.ListReservations(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReplaceFeedReservations_EmptySetClearsPartition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedReservation(t, s, "feed-a-old", "p-1", "feed-a", "OLD1")
	require.NoError(t, s.ReplaceFeedReservations(ctx, "feed-a", nil))

	all, err := s.ListReservations(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReplaceSyncedReservations_PreservesManualOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedReservation(t, s, "manual-1", "p-1", model.SourceManual, "")
	seedReservation(t, s, "manual-2", "p-2", model.SourceManual, "M2")
	seedReservation(t, s, "feed-a-1", "p-1", "feed-a", "A1")
	seedReservation(t, s, "feed-b-1", "p-2", "feed-b", "B1")

	union := []model.Reservation{
		{ID: "feed-a-fresh", PropertyID: "p-1", SourceID: "feed-a", CheckIn: "2024-07-01", CheckOut: "2024-07-04", Status: model.StatusUpcoming},
	}
	require.NoError(t, s.ReplaceSyncedReservations(ctx, union))

	all, err := s.ListReservations(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"manual-1", "manual-2", "feed-a-fresh"}, idsOf(all))
}

func TestMergeReservationsByCode(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedReservation(t, s, "existing-coded", "p-1", model.SourceManual, "ABC123")
	seedReservation(t, s, "existing-codeless", "p-1", model.SourceManual, "")

	incoming := []model.Reservation{
		{ID: "import-1", PropertyID: "p-1", SourceID: model.SourceManual, ReservationCode: "ABC123", CheckIn: "2024-08-01", CheckOut: "2024-08-03", Status: model.StatusUpcoming},
		{ID: "import-2", PropertyID: "p-1", SourceID: model.SourceManual, ReservationCode: "", CheckIn: "2024-08-05", CheckOut: "2024-08-07", Status: model.StatusUpcoming},
	}
	require.NoError(t, s.MergeReservationsByCode(ctx, incoming))

	all, err := s.ListReservations(ctx, "")
	require.NoError(t, err)
	// The coded duplicate is replaced; codeless rows accumulate.
	assert.ElementsMatch(t, []string{"existing-codeless", "import-1", "import-2"}, idsOf(all))
}

func TestDeleteFeedCascadesToPartition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.CreateFeed(ctx, model.CalendarFeed{ID: "feed-a", PropertyID: "p-1", URL: "https://cal.example/a.ics"}))
	seedReservation(t, s, "feed-a-1", "p-1", "feed-a", "")
	seedReservation(t, s, "manual-1", "p-1", model.SourceManual, "")

	require.NoError(t, s.DeleteFeed(ctx, "feed-a"))

	feeds, err := s.ListFeeds(ctx)
	require.NoError(t, err)
	assert.Empty(t, feeds)

	all, err := s.ListReservations(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"manual-1"}, idsOf(all))
}

func TestDeletePropertyCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.CreateProperty(ctx, model.Property{ID: "p-1", Name: "Casa Centro"}))
	require.NoError(t, s.CreateProperty(ctx, model.Property{ID: "p-2", Name: "Habitación Azul"}))
	require.NoError(t, s.CreateFeed(ctx, model.CalendarFeed{ID: "feed-a", PropertyID: "p-1", URL: "https://cal.example/a.ics"}))
	seedReservation(t, s, "r-1", "p-1", "feed-a", "")
	seedReservation(t, s, "r-2", "p-2", model.SourceManual, "")

	require.NoError(t, s.DeleteProperty(ctx, "p-1"))

	properties, err := s.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, "p-2", properties[0].ID)

	feeds, err := s.ListFeeds(ctx)
	require.NoError(t, err)
	assert.Empty(t, feeds)

	all, err := s.ListReservations(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r-2"}, idsOf(all))
}

func TestClearReservations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedReservation(t, s, "r-1", "p-1", model.SourceManual, "")
	seedReservation(t, s, "r-2", "p-2", model.SourceManual, "")

	require.NoError(t, s.ClearReservations(ctx, "p-1"))
	all, err := s.ListReservations(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r-2"}, idsOf(all))

	require.NoError(t, s.ClearReservations(ctx, ""))
	all, err = s.ListReservations(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdjustStockFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.CreateInventoryItem(ctx, model.InventoryItem{ID: "i-1", Name: "Papel Higiénico", Stock: 2, MinStock: 3, Unit: "rollos"}))

	item, err := s.AdjustStock(ctx, "i-1", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Stock)
	assert.True(t, item.LowStock())

	item, err = s.AdjustStock(ctx, "i-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Stock)
	assert.False(t, item.LowStock())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.CreateProperty(ctx, model.Property{ID: "p-1", Name: "Casa Centro"}))
	require.NoError(t, s.CreateFeed(ctx, model.CalendarFeed{ID: "feed-a", PropertyID: "p-1", URL: "https://cal.example/a.ics"}))
	seedReservation(t, s, "r-1", "p-1", "feed-a", "C1")
	require.NoError(t, s.CreateInventoryItem(ctx, model.InventoryItem{ID: "i-1", Name: "Jabón", Stock: 4, MinStock: 2}))
	require.NoError(t, s.CreateProfile(ctx, model.Profile{ID: "u-1", Name: "Ana", Role: model.RoleHost}))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)

	// A restore target with different prior contents.
	other := newTestStore(t)
	require.NoError(t, other.CreateProperty(ctx, model.Property{ID: "stale", Name: "Vieja"}))

	require.NoError(t, other.Restore(ctx, snap))

	properties, err := other.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, "p-1", properties[0].ID)

	reservations, err := other.ListReservations(ctx, "")
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "r-1", reservations[0].ID)

	profiles, err := other.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	inventory, err := other.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 1)
}
