package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fire    func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

func newFakeBanner() (*Banner, *[]*fakeTimer) {
	timers := &[]*fakeTimer{}
	b := NewBanner(5*time.Second, nil)
	b.after = func(d time.Duration, f func()) stopper {
		t := &fakeTimer{fire: f}
		*timers = append(*timers, t)
		return t
	}
	return b, timers
}

func TestBannerExpires(t *testing.T) {
	b, timers := newFakeBanner()

	b.Show("saved", LevelSuccess)
	msg, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "saved", msg.Text)

	(*timers)[0].fire()

	_, ok = b.Current()
	assert.False(t, ok)
}

func TestBannerSecondMessageResetsTimer(t *testing.T) {
	b, timers := newFakeBanner()

	b.Show("first", LevelSuccess)
	b.Show("second", LevelError)

	require.Len(t, *timers, 2)
	assert.True(t, (*timers)[0].stopped)

	// таймер первого сообщения не должен скрыть второе
	(*timers)[0].fire()
	msg, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "second", msg.Text)
	assert.Equal(t, LevelError, msg.Level)

	(*timers)[1].fire()
	_, ok = b.Current()
	assert.False(t, ok)
}

func TestBannerDismiss(t *testing.T) {
	b, timers := newFakeBanner()

	b.Show("x", LevelError)
	b.Dismiss()

	_, ok := b.Current()
	assert.False(t, ok)
	assert.True(t, (*timers)[0].stopped)
}

func TestBannerRealTimer(t *testing.T) {
	changed := make(chan struct{}, 4)
	b := NewBanner(10*time.Millisecond, func() { changed <- struct{}{} })

	b.Show("hello", LevelSuccess)
	<-changed

	require.Eventually(t, func() bool {
		_, ok := b.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}
