//go:build unit

package readstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/pkg/pgconv"
	"hotel-reservation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoomViewQueries struct {
	mock.Mock
}

func (m *MockRoomViewQueries) ListPublishedRooms(ctx context.Context, db query.DBTX) ([]query.Room, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]query.Room), args.Error(1)
}

func (m *MockRoomViewQueries) ListPublishedRoomsByType(ctx context.Context, db query.DBTX, roomType string) ([]query.Room, error) {
	args := m.Called(ctx, db, roomType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]query.Room), args.Error(1)
}

type MockIdempotencyReadQueries struct {
	mock.Mock
}

func (m *MockIdempotencyReadQueries) GetIdempotencyKey(ctx context.Context, db query.DBTX, key uuid.UUID) (query.IdempotencyKey, error) {
	args := m.Called(ctx, db, key)
	return args.Get(0).(query.IdempotencyKey), args.Error(1)
}

func TestListPublished(t *testing.T) {
	double := builder.NewRoomBuilder()
	suite := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) {
		b.Code = "301"
		b.Type = "suite"
		b.Capacity = 4
		b.Occupied = true
	})

	t.Run("success - rows mapped in query order", func(t *testing.T) {
		mockQueries := new(MockRoomViewQueries)
		mockDB := &mockDBTX{}
		store := NewRoomReadStore(mockQueries, mockDB)

		mockQueries.On("ListPublishedRooms", mock.Anything, mockDB).
			Return([]query.Room{double.BuildInfra(), suite.BuildInfra()}, nil)

		views, err := store.ListPublished(context.Background())

		require.NoError(t, err)
		assert.Equal(t, double.BuildView(), views[0])
		assert.Equal(t, suite.BuildView(), views[1])
	})

	t.Run("success - filtered by type", func(t *testing.T) {
		mockQueries := new(MockRoomViewQueries)
		mockDB := &mockDBTX{}
		store := NewRoomReadStore(mockQueries, mockDB)

		mockQueries.On("ListPublishedRoomsByType", mock.Anything, mockDB, "suite").
			Return([]query.Room{suite.BuildInfra()}, nil)

		views, err := store.ListPublishedByType(context.Background(), "suite")

		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "301", views[0].Code)
		assert.True(t, views[0].Occupied)
	})

	t.Run("error - database failure", func(t *testing.T) {
		mockQueries := new(MockRoomViewQueries)
		mockDB := &mockDBTX{}
		store := NewRoomReadStore(mockQueries, mockDB)

		mockQueries.On("ListPublishedRooms", mock.Anything, mockDB).Return(nil, errors.New("timeout"))

		views, err := store.ListPublished(context.Background())

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		assert.Nil(t, views)
	})
}

func TestIdempotencyGet(t *testing.T) {
	key := uuid.New()
	resID := uuid.New()
	expires := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mockReturn query.IdempotencyKey
		mockError  error
		wantKind   infra.RepositoryErrorKind
	}{
		{
			name: "success - completed record",
			mockReturn: query.IdempotencyKey{
				Key:            key,
				Endpoint:       "POST /reservations",
				RequestHash:    "d2f1",
				Status:         "completed",
				ReservationIDs: []pgtype.UUID{pgconv.UUIDToPgtype(resID)},
				ExpiresAt:      pgconv.TimeToPgtype(expires),
			},
		},
		{
			name:      "error - missing key",
			mockError: pgx.ErrNoRows,
			wantKind:  infra.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockIdempotencyReadQueries)
			mockDB := &mockDBTX{}
			store := NewIdempotencyReadStore(mockQueries, mockDB)

			mockQueries.On("GetIdempotencyKey", mock.Anything, mockDB, key).Return(tt.mockReturn, tt.mockError)

			rec, err := store.Get(context.Background(), key)

			if tt.mockError != nil {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
				assert.Nil(t, rec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "completed", rec.Status)
			assert.Equal(t, []uuid.UUID{resID}, rec.ReservationIDs)
			assert.Equal(t, expires, rec.ExpiresAt)
		})
	}
}
