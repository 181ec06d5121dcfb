package scan

import "context"

// Scanner runs one diagnostic pass against a resolved target. Implementations
// must return a report that is total over the deduplicated requested ports,
// and must leave no attempt running once Scan returns.
type Scanner interface {
	Scan(ctx context.Context, target Target, ports []int) (*Report, error)
}
