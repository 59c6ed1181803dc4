//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/infra/repository"
	"hotel-reservation/internal/pkg/pgconv"
	"hotel-reservation/tests/common/builder"
	repositorymock "hotel-reservation/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// =============================================================================
// Create Reservation Tests
// =============================================================================

func TestReservationRepository_Create(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		setupMock     func(*repositorymock.MockReservationWriteQueries, *reservation.Reservation, query.DBTX)
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{
			name: "success: reservation created with occupied days",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, res *reservation.Reservation, db query.DBTX) {
				mock.EXPECT().CreateReservation(ctx, db, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ query.DBTX, arg query.CreateReservationParams) error {
						assert.Equal(t, res.ID(), arg.ID)
						assert.Equal(t, "ABCD2345", arg.ConfirmationCode)
						assert.Len(t, arg.OccupiedDays, 2)
						assert.JSONEq(t, `[{"code":"BREAKFAST","quantity":2}]`, string(arg.Addons))
						assert.Equal(t, "confirmed", arg.Status)
						return nil
					})
			},
		},
		{
			name: "error: overlapping stay rejected by exclusion constraint",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, res *reservation.Reservation, db query.DBTX) {
				mock.EXPECT().CreateReservation(ctx, db, gomock.Any()).Return(&pgconn.PgError{Code: "23P01"})
			},
			expectedError: true,
			expectKind:    infra.KindConflict,
		},
		{
			name: "error: duplicate confirmation code",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, res *reservation.Reservation, db query.DBTX) {
				mock.EXPECT().CreateReservation(ctx, db, gomock.Any()).Return(&pgconn.PgError{Code: "23505"})
			},
			expectedError: true,
			expectKind:    infra.KindDuplicateKey,
		},
		{
			name: "error: room does not exist",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, res *reservation.Reservation, db query.DBTX) {
				mock.EXPECT().CreateReservation(ctx, db, gomock.Any()).Return(&pgconn.PgError{Code: "23503"})
			},
			expectedError: true,
			expectKind:    infra.KindForeignKeyViolated,
		},
		{
			name: "error: database failure",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, res *reservation.Reservation, db query.DBTX) {
				mock.EXPECT().CreateReservation(ctx, db, gomock.Any()).Return(errors.New("connection reset"))
			},
			expectedError: true,
			expectKind:    infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockReservationWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewReservationRepository(mockQueries, mockDB)

			res, err := builder.NewReservationBuilder().BuildDomain()
			require.NoError(t, err)

			tc.setupMock(mockQueries, res, mockDB)

			err = repo.Create(ctx, res)

			if tc.expectedError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// FindByID Tests
// =============================================================================

func TestReservationRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	rb := builder.NewReservationBuilder()

	testCases := []struct {
		name          string
		setupMock     func(*repositorymock.MockReservationWriteQueries, query.DBTX)
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{
			name: "success: row converted to domain",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, db query.DBTX) {
				mock.EXPECT().GetReservationByID(ctx, db, rb.ID).Return(rb.BuildInfra(), nil)
			},
		},
		{
			name: "error: reservation not found",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, db query.DBTX) {
				mock.EXPECT().GetReservationByID(ctx, db, rb.ID).Return(query.Reservation{}, pgx.ErrNoRows)
			},
			expectedError: true,
			expectKind:    infra.KindNotFound,
		},
		{
			name: "error: unknown status stored in row",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, db query.DBTX) {
				row := rb.BuildInfra()
				row.Status = "pending"
				mock.EXPECT().GetReservationByID(ctx, db, rb.ID).Return(row, nil)
			},
			expectedError: true,
			expectKind:    infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockReservationWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewReservationRepository(mockQueries, mockDB)

			tc.setupMock(mockQueries, mockDB)

			res, err := repo.FindByID(ctx, rb.ID)

			if tc.expectedError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind))
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, rb.ID, res.ID())
			assert.Equal(t, rb.RoomID, res.RoomID())
			assert.Equal(t, rb.CheckIn, res.Stay().Start())
			assert.Equal(t, rb.CheckOut, res.Stay().End())
			assert.Equal(t, rb.Addons, res.Addons())
			assert.Equal(t, reservation.StatusConfirmed, res.Status())
		})
	}
}

// =============================================================================
// FindByIDs / UpdateStatus Tests
// =============================================================================

func TestReservationRepository_FindByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("success: empty ids skip the query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository.NewReservationRepository(repositorymock.NewMockReservationWriteQueries(ctrl), &mockDBTX{})

		got, err := repo.FindByIDs(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("success: keeps row order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := repositorymock.NewMockReservationWriteQueries(ctrl)
		mockDB := &mockDBTX{}
		repo := repository.NewReservationRepository(mockQueries, mockDB)

		first := builder.NewReservationBuilder()
		second := builder.NewReservationBuilder().Stay("2025-07-05", "2025-07-06")
		mockQueries.EXPECT().ListReservationsByIDs(ctx, mockDB, gomock.Any()).
			Return([]query.Reservation{first.BuildInfra(), second.BuildInfra()}, nil)

		got, err := repo.FindByIDs(ctx, []uuid.UUID{second.ID, first.ID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first.ID, got[0].ID())
		assert.Equal(t, second.ID, got[1].ID())
	})
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		affected      int64
		queryErr      error
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{name: "success: status updated", affected: 1},
		{name: "error: reservation vanished", affected: 0, expectedError: true, expectKind: infra.KindNotFound},
		{name: "error: database failure", queryErr: errors.New("deadlock"), expectedError: true, expectKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockReservationWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewReservationRepository(mockQueries, mockDB)

			res, err := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
				b.Status = reservation.StatusCancelled
			}).BuildDomain()
			require.NoError(t, err)

			mockQueries.EXPECT().UpdateReservationStatus(ctx, mockDB, query.UpdateReservationStatusParams{
				ID:        res.ID(),
				Status:    "cancelled",
				UpdatedAt: pgconv.TimeToPgtype(res.UpdatedAt()),
			}).Return(tc.affected, tc.queryErr)

			err = repo.UpdateStatus(ctx, res)

			if tc.expectedError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
