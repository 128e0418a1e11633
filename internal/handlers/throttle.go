package handlers

// Throttle gates mutating friend-request calls per acting account. Rate
// policy itself lives outside this service; the default allows everything.
type Throttle interface {
	Allow(userID int64) bool
}

type unlimitedThrottle struct{}

func NewUnlimitedThrottle() Throttle { return unlimitedThrottle{} }

func (unlimitedThrottle) Allow(int64) bool { return true }
