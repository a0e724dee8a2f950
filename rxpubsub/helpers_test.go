package rxpubsub_test

import (
	"time"

	"github.com/gordian-engine/rxepic/internal/rtest"
)

func timeout() <-chan time.Time {
	return time.After(rtest.ScheduleDuration)
}
