package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.subs.Subscribe(ctx, "  Reader@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", sub.Email)

	_, err = f.subs.Subscribe(ctx, "reader@example.com")
	requireStatus(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, "Already Subscribed.", err.Error())

	_, err = f.subs.Subscribe(ctx, "")
	requireStatus(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, "Provide email...", err.Error())

	for _, bad := range []string{"not-an-email", "a@", "@b.com"} {
		_, err = f.subs.Subscribe(ctx, bad)
		requireStatus(t, err, http.StatusUnprocessableEntity)
		assert.Contains(t, err.Error(), "Enter valid email address.")
	}
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.subs.Unsubscribe(ctx, "reader@example.com")
	requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "This email is not registered yet.", err.Error())

	_, err = f.subs.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	require.NoError(t, f.subs.Unsubscribe(ctx, "READER@example.com"))

	_, err = f.subs.Subscribe(ctx, "reader@example.com")
	assert.NoError(t, err, "can subscribe again after unsubscribing")
}
