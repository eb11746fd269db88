package form

import (
	"fmt"
	"strings"
)

// OverlapPolicy decides what happens when Submit is called while another
// submission is still in flight.
type OverlapPolicy string

const (
	// OverlapAllow runs submissions concurrently; the last to resolve wins.
	OverlapAllow OverlapPolicy = "allow"
	// OverlapReject refuses new submissions while one is pending.
	OverlapReject OverlapPolicy = "reject"
	// OverlapSupersede cancels the pending submission in favor of the new one.
	OverlapSupersede OverlapPolicy = "supersede"
)

// ParseOverlapPolicy validates a policy name. An empty name selects OverlapAllow.
func ParseOverlapPolicy(name string) (OverlapPolicy, error) {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", OverlapAllow:
		return OverlapAllow, nil
	case OverlapReject:
		return OverlapReject, nil
	case OverlapSupersede:
		return OverlapSupersede, nil
	default:
		return "", fmt.Errorf("invalid overlap policy: %s (must be 'allow', 'reject' or 'supersede')", name)
	}
}
