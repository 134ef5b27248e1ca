package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
)

func TestDispatchSendsToEverySubscriber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	in := validInput()
	in.Title = strPtr("grandma's apple pie")
	_, err := f.recipes.Create(ctx, owner.ID, in, upload("pie.png", 10))
	require.NoError(t, err)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := f.subs.Subscribe(ctx, email)
		require.NoError(t, err)
	}

	mailer := testhelpers.NewFakeMailer()
	mailer.FailFor["b@example.com"] = true
	notifier := service.NewNotificationService(f.store, mailer, "http://localhost:3000")

	summary, err := notifier.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.DispatchSummary{Sent: 2, Failed: 1}, summary)

	require.Len(t, mailer.Sent, 2)
	assert.Equal(t, "a@example.com", mailer.Sent[0].To)
	assert.Equal(t, "c@example.com", mailer.Sent[1].To, "a failed send does not stop the run")
	for _, m := range mailer.Sent {
		assert.Equal(t, "Weekly Recipe Notification", m.Subject)
		assert.Contains(t, m.HTMLBody, "Reminder!!!")
		assert.Contains(t, m.HTMLBody, "Grandma&#39;s Apple Pie")
		assert.Contains(t, m.TextBody, "Grandma's Apple Pie")
		assert.Contains(t, m.TextBody, "http://localhost:3000")
	}
}

func TestDispatchWithoutSubscribers(t *testing.T) {
	f := newFixture(t)
	mailer := testhelpers.NewFakeMailer()
	notifier := service.NewNotificationService(f.store, mailer, "http://localhost:3000")

	summary, err := notifier.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Sent)
	assert.Empty(t, mailer.Sent)
}

func TestSchedulerRunsJobAndWaitsOnStop(t *testing.T) {
	s := service.NewScheduler()
	assert.Error(t, s.Add("bad", "not a cron spec", func(context.Context) error { return nil }))

	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "@every 1s", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))
	s.Start()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
