//go:build unit

package jobs_test

import (
	"context"
	"errors"
	"testing"

	"hotel-reservation/internal/jobs"
	"hotel-reservation/internal/pkg/config"
	commandsmock "hotel-reservation/tests/mock/commands"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testSchedulerConfig = config.SchedulerConfig{
	Enabled:              true,
	CompletionSweepSpec:  "0 3 * * *",
	OutboxRelaySpec:      "@every 1m",
	IdempotencyPurgeSpec: "@hourly",
}

func TestReservationJobs(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		job       string
		setupMock func(*commandsmock.MockReservationCommands, *commandsmock.MockMaintenanceCommands)
		wantErr   bool
	}{
		{
			name: "success: completion sweep completes ended stays",
			job:  "completion-sweep",
			setupMock: func(r *commandsmock.MockReservationCommands, m *commandsmock.MockMaintenanceCommands) {
				r.EXPECT().CompleteEndedStays(gomock.Any()).Return(3, nil)
			},
		},
		{
			name: "success: outbox relay delivers pending notifications",
			job:  "outbox-relay",
			setupMock: func(r *commandsmock.MockReservationCommands, m *commandsmock.MockMaintenanceCommands) {
				m.EXPECT().RelayNotifications(gomock.Any()).Return(2, nil)
			},
		},
		{
			name: "success: idempotency purge deletes expired keys",
			job:  "idempotency-purge",
			setupMock: func(r *commandsmock.MockReservationCommands, m *commandsmock.MockMaintenanceCommands) {
				m.EXPECT().PurgeExpiredIdempotencyKeys(gomock.Any()).Return(int64(0), nil)
			},
		},
		{
			name: "error: failure is returned to the runner",
			job:  "outbox-relay",
			setupMock: func(r *commandsmock.MockReservationCommands, m *commandsmock.MockMaintenanceCommands) {
				m.EXPECT().RelayNotifications(gomock.Any()).Return(0, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reservations := commandsmock.NewMockReservationCommands(ctrl)
			maintenance := commandsmock.NewMockMaintenanceCommands(ctrl)
			tc.setupMock(reservations, maintenance)

			var target *jobs.Job
			all := jobs.ReservationJobs(testSchedulerConfig, reservations, maintenance)
			for i := range all {
				if all[i].Name == tc.job {
					target = &all[i]
				}
			}
			require.NotNil(t, target)

			err := target.Run(ctx)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	t.Run("success: every job gets a cron entry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c := cron.New()
		all := jobs.ReservationJobs(testSchedulerConfig,
			commandsmock.NewMockReservationCommands(ctrl), commandsmock.NewMockMaintenanceCommands(ctrl))

		require.NoError(t, jobs.Register(c, all))
		assert.Len(t, c.Entries(), 3)
	})

	t.Run("success: registered entry runs the job", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reservations := commandsmock.NewMockReservationCommands(ctrl)
		reservations.EXPECT().CompleteEndedStays(gomock.Any()).Return(1, nil).Times(1)

		c := cron.New()
		all := jobs.ReservationJobs(testSchedulerConfig, reservations, commandsmock.NewMockMaintenanceCommands(ctrl))
		require.NoError(t, jobs.Register(c, all[:1]))

		entries := c.Entries()
		require.Len(t, entries, 1)
		entries[0].Job.Run()
	})

	t.Run("error: invalid spec is rejected", func(t *testing.T) {
		c := cron.New()
		err := jobs.Register(c, []jobs.Job{{
			Name: "broken",
			Spec: "every tuesday-ish",
			Run:  func(context.Context) error { return nil },
		}})
		assert.Error(t, err)
		assert.Empty(t, c.Entries())
	})
}
