package explorer

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics records the outcome of explorer calls.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
