package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSchedulerRecoversPanicIntoLog(t *testing.T) {
	out := &syncBuffer{}
	s := newScheduler(zerolog.New(out))

	require.NoError(t, s.Add("exploding", "@every 1s", func(context.Context) error {
		panic("boom")
	}))
	s.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})

	assert.Eventually(t, func() bool {
		logs := out.String()
		return strings.Contains(logs, `"level":"error"`) && strings.Contains(logs, `"message":"panic"`) && strings.Contains(logs, "boom")
	}, 5*time.Second, 50*time.Millisecond)
}

func TestCronLoggerFields(t *testing.T) {
	var out bytes.Buffer
	l := cronLogger{log: zerolog.New(&out)}

	l.Error(errors.New("disk full"), "job failed", "entry", 3)
	assert.Contains(t, out.String(), `"level":"error"`)
	assert.Contains(t, out.String(), `"error":"disk full"`)
	assert.Contains(t, out.String(), `"entry":3`)
	assert.Contains(t, out.String(), `"message":"job failed"`)

	out.Reset()
	l.Info("wake", "now", "later")
	assert.Contains(t, out.String(), `"level":"debug"`)
	assert.Contains(t, out.String(), `"now":"later"`)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := newScheduler(zerolog.Nop())
	err := s.Add("broken", "every saturday", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
