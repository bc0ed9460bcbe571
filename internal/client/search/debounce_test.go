package search

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

func expectNoFire(t *testing.T, fired <-chan string) {
	t.Helper()
	select {
	case got := <-fired:
		t.Fatalf("unexpected search for %q", got)
	case <-time.After(20 * time.Millisecond):
	}
}

func expectFire(t *testing.T, fired <-chan string) string {
	t.Helper()
	select {
	case got := <-fired:
		return got
	case <-time.After(time.Second):
		t.Fatal("search did not fire")
		return ""
	}
}

func TestDebouncer_OnlyLastKeystrokeFires(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan string, 8)
	d := NewDebouncer(mock, 500*time.Millisecond, func(text string) { fired <- text })

	var pending *clock.Timer
	pending = d.OnKeystroke("i", pending)
	mock.Add(100 * time.Millisecond)
	pending = d.OnKeystroke("ip", pending)
	mock.Add(100 * time.Millisecond)
	pending = d.OnKeystroke("iph", pending)

	// The mock fires a timer due at exactly the current instant, so the last
	// keystroke lands one millisecond inside the previous window.
	mock.Add(499 * time.Millisecond)
	expectNoFire(t, fired)
	pending = d.OnKeystroke("iphone", pending)

	mock.Add(499 * time.Millisecond)
	expectNoFire(t, fired)

	mock.Add(time.Millisecond)
	assert.Equal(t, "iphone", expectFire(t, fired))
	assert.NotNil(t, pending)

	mock.Add(time.Second)
	expectNoFire(t, fired)
}

func TestDebouncer_KeystrokeAtDeadline(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan string, 8)
	d := NewDebouncer(mock, 500*time.Millisecond, func(text string) { fired <- text })

	var pending *clock.Timer
	pending = d.OnKeystroke("i", pending)
	mock.Add(100 * time.Millisecond)
	pending = d.OnKeystroke("ip", pending)
	mock.Add(100 * time.Millisecond)
	pending = d.OnKeystroke("iph", pending)

	// t=700: the window opened at t=200 closes now.
	mock.Add(500 * time.Millisecond)
	assert.Equal(t, "iph", expectFire(t, fired))
	pending = d.OnKeystroke("iphone", pending)

	mock.Add(499 * time.Millisecond)
	expectNoFire(t, fired)

	// t=1200
	mock.Add(time.Millisecond)
	assert.Equal(t, "iphone", expectFire(t, fired))
	assert.NotNil(t, pending)
	expectNoFire(t, fired)
}

func TestDebouncer_SeparatedKeystrokesEachFire(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan string, 8)
	d := NewDebouncer(mock, 0, func(text string) { fired <- text })

	pending := d.OnKeystroke("tv", nil)
	mock.Add(DefaultQuietInterval)
	assert.Equal(t, "tv", expectFire(t, fired))

	d.OnKeystroke("radio", pending)
	mock.Add(DefaultQuietInterval)
	assert.Equal(t, "radio", expectFire(t, fired))
}

func TestNewDebouncer_DefaultsToWallClock(t *testing.T) {
	d := NewDebouncer(nil, -1, func(string) {})
	assert.NotNil(t, d.clock)
	assert.Equal(t, DefaultQuietInterval, d.wait)
}
