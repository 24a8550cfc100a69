package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benmeehan/home-sentinel/internal/mocks"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/benmeehan/home-sentinel/internal/motion"
	"github.com/benmeehan/home-sentinel/internal/notify"
	"github.com/benmeehan/home-sentinel/internal/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newAlertService(sig *motion.Signal, clock *fakeClock) (*services.AlertService, *mocks.MockDispatcher, *mocks.MockCamera) {
	cam := new(mocks.MockCamera)
	cam.On("Capture").Return("http://10.28.158.71/jpg")

	disp := new(mocks.MockDispatcher)
	disp.On("Dispatch", mock.Anything, models.Alert{
		Reason:   "motion",
		Message:  "Motion detected",
		PhotoRef: "http://10.28.158.71/jpg",
	}).Return(notify.Result{})

	a := services.NewAlertService(time.Second, 60*time.Second, sig, cam, disp, nil, zerolog.Nop())
	a.Now = clock.Now
	return a, disp, cam
}

func TestAlertService_Poll_NoMotion(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	a, disp, cam := newAlertService(motion.NewSignal(5*time.Second), clock)

	assert.False(t, a.Poll(context.Background()))
	disp.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	cam.AssertNotCalled(t, "Capture")
}

func TestAlertService_Poll_Cooldown(t *testing.T) {
	sig := motion.NewSignal(5 * time.Second)
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	a, disp, cam := newAlertService(sig, clock)
	base := clock.now

	sig.Trigger(0)
	assert.True(t, a.Poll(context.Background()))

	// edges are kept more than the debounce window apart so every one is accepted
	clock.now = base.Add(30 * time.Second)
	require.True(t, sig.Trigger(30*time.Second))
	assert.False(t, a.Poll(context.Background()), "motion inside cooldown is discarded")

	clock.now = base.Add(59 * time.Second)
	assert.False(t, a.Poll(context.Background()), "discarded event is not retried")

	clock.now = base.Add(61 * time.Second)
	require.True(t, sig.Trigger(61*time.Second))
	assert.True(t, a.Poll(context.Background()))

	disp.AssertNumberOfCalls(t, "Dispatch", 2)
	cam.AssertNumberOfCalls(t, "Capture", 2)
}

func TestAlertService_Poll_SuppressedEventNotReplayedAfterCooldown(t *testing.T) {
	sig := motion.NewSignal(5 * time.Second)
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	a, disp, _ := newAlertService(sig, clock)
	base := clock.now

	sig.Trigger(0)
	require.True(t, a.Poll(context.Background()))

	clock.now = base.Add(59 * time.Second)
	require.True(t, sig.Trigger(59*time.Second))
	assert.False(t, a.Poll(context.Background()))

	// the cooldown has expired but no new motion arrived
	for _, at := range []time.Duration{60, 61, 90, 120} {
		clock.now = base.Add(at * time.Second)
		assert.False(t, a.Poll(context.Background()), "no alert without new motion at %ds", at)
	}

	disp.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestAlertService_StartStop(t *testing.T) {
	sig := motion.NewSignal(5 * time.Second)

	var dispatched atomic.Int32
	disp := new(mocks.MockDispatcher)
	disp.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { dispatched.Add(1) }).
		Return(notify.Result{})

	cam := new(mocks.MockCamera)
	cam.On("Capture").Return(`{"url":"https://picsum.photos/640/480?random=1"}`)

	a := services.NewAlertService(5*time.Millisecond, time.Minute, sig, cam, disp, nil, zerolog.Nop())

	require.NoError(t, a.Start())
	assert.EqualError(t, a.Start(), "alert service is already running")

	sig.TriggerNow()
	assert.Eventually(t, func() bool { return dispatched.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, a.Stop())
	assert.EqualError(t, a.Stop(), "alert service is not running")
}
