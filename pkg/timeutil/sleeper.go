package timeutil

import "time"

// Sleeper abstracts time.Sleep so schedulers can be tested without real
// wall-clock delays.
type Sleeper interface {
	Sleep(d time.Duration)
}

type RealSleeper struct{}

func NewRealSleeper() RealSleeper {
	return RealSleeper{}
}

func (RealSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}
