package transport

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	StateProvider interface {
		State(ctx context.Context) ([]byte, error)
	}
	StateAge interface {
		Age(ctx context.Context) (time.Duration, bool)
	}
)
