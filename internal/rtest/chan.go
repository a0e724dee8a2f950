package rtest

import (
	"testing"
	"time"
)

// ScheduleDuration is how long the channel helpers wait
// before deciding an operation will not happen.
const ScheduleDuration = 100 * time.Millisecond

// SendSoon sends v on ch, failing the test if the send
// does not complete within [ScheduleDuration].
func SendSoon[T any](t testing.TB, ch chan<- T, v T) {
	t.Helper()

	timer := time.NewTimer(ScheduleDuration)
	defer timer.Stop()

	select {
	case ch <- v:
	case <-timer.C:
		t.Fatalf("channel did not accept value within %s", ScheduleDuration)
	}
}

// ReceiveSoon returns the next value from ch, failing the test if no value
// (or close) arrives within [ScheduleDuration].
func ReceiveSoon[T any](t testing.TB, ch <-chan T) T {
	t.Helper()

	timer := time.NewTimer(ScheduleDuration)
	defer timer.Stop()

	select {
	case v := <-ch:
		return v
	case <-timer.C:
		t.Fatalf("no value received within %s", ScheduleDuration)
	}

	panic("unreachable")
}

// IsSending asserts that ch is immediately readable.
// It is intended for channels that signal by closing;
// on other channels it consumes one value.
func IsSending[T any](t testing.TB, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
	default:
		t.Fatal("channel was not ready")
	}
}

// NotSending asserts that ch is not readable right now.
func NotSending[T any](t testing.TB, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
		t.Fatal("channel was unexpectedly ready")
	default:
	}
}
