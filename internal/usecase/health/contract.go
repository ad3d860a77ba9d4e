package health

import "context"

// EnginePinger checks search engine availability.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks scrape cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
