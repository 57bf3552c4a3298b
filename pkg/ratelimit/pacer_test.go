package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 10, 2, 9, 30, 0, 0, time.UTC)

func newVirtualPacer(t *testing.T, callsPerMinute int) (*Pacer, *VirtualClock) {
	t.Helper()
	clock := NewVirtualClock(epoch)
	p, err := NewPacer(PacerConfig{CallsPerMinute: callsPerMinute, Clock: clock, Sleeper: clock})
	require.NoError(t, err)
	return p, clock
}

func TestPacerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rate    int
		wantErr bool
	}{
		{"default", DefaultCallsPerMinute, false},
		{"one per minute", 1, false},
		{"maximum", maxCallsPerMinute, false},
		{"zero", 0, true},
		{"negative", -4, true},
		{"too fast", maxCallsPerMinute + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PacerConfig{CallsPerMinute: tt.rate}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPacerConfig_Interval(t *testing.T) {
	assert.Equal(t, 15*time.Second, PacerConfig{CallsPerMinute: 4}.Interval())
	assert.Equal(t, time.Minute, PacerConfig{CallsPerMinute: 1}.Interval())
	assert.Equal(t, 100*time.Millisecond, PacerConfig{CallsPerMinute: 600}.Interval())
}

func TestNewPacer_InvalidConfig(t *testing.T) {
	_, err := NewPacer(PacerConfig{})
	assert.Error(t, err)
}

func TestPacer_FirstCallDoesNotWait(t *testing.T) {
	p, clock := newVirtualPacer(t, DefaultCallsPerMinute)

	require.NoError(t, p.Wait(context.Background()))

	assert.Equal(t, 0, p.Pauses())
	assert.Empty(t, clock.Sleeps())
	assert.Equal(t, epoch, clock.Now())
}

func TestPacer_NMinusOnePauses(t *testing.T) {
	for _, n := range []int{1, 2, 5, 30} {
		p, clock := newVirtualPacer(t, DefaultCallsPerMinute)

		for i := 0; i < n; i++ {
			require.NoError(t, p.Wait(context.Background()))
		}

		assert.Equal(t, n-1, p.Pauses(), "n=%d", n)
		sleeps := clock.Sleeps()
		require.Len(t, sleeps, n-1)
		for _, d := range sleeps {
			assert.InDelta(t, float64(15*time.Second), float64(d), float64(time.Millisecond))
		}
	}
}

func TestPacer_NoPauseWhenWorkTakesLongerThanInterval(t *testing.T) {
	p, clock := newVirtualPacer(t, DefaultCallsPerMinute)

	require.NoError(t, p.Wait(context.Background()))
	clock.Advance(20 * time.Second)
	require.NoError(t, p.Wait(context.Background()))

	assert.Equal(t, 0, p.Pauses())
}

func TestPacer_PartialPauseAfterShortWork(t *testing.T) {
	p, clock := newVirtualPacer(t, DefaultCallsPerMinute)

	require.NoError(t, p.Wait(context.Background()))
	clock.Advance(5 * time.Second)
	require.NoError(t, p.Wait(context.Background()))

	sleeps := clock.Sleeps()
	require.Len(t, sleeps, 1)
	assert.InDelta(t, float64(10*time.Second), float64(sleeps[0]), float64(time.Millisecond))
}

func TestPacer_ContextCanceled(t *testing.T) {
	p, _ := newVirtualPacer(t, DefaultCallsPerMinute)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSystemSleeper_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := SystemSleeper{}.Sleep(ctx, time.Minute)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSystemSleeper_Sleeps(t *testing.T) {
	err := SystemSleeper{}.Sleep(context.Background(), time.Millisecond)
	assert.NoError(t, err)
}
