// Package transport exposes gRPC/HTTP handlers.
package transport

import (
	"context"
	"fmt"
	"time"

	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
)

// ExplorerHandler implements ExplorerServiceServer.
type ExplorerHandler struct {
	blockinsight7000v1.UnimplementedExplorerServiceServer
	state StateAge
}

// NewExplorerHandler returns an ExplorerHandler reporting the age of the
// cached chain state.
func NewExplorerHandler(state StateAge) blockinsight7000v1.ExplorerServiceServer {
	return &ExplorerHandler{state: state}
}

// Health reports server health and how old the cached state is.
func (h *ExplorerHandler) Health(ctx context.Context, _ *blockinsight7000v1.HealthRequest) (*blockinsight7000v1.HealthResponse, error) {
	description := "no cached state"
	if age, ok := h.state.Age(ctx); ok {
		description = fmt.Sprintf("state cached %s ago", age.Truncate(time.Second))
	}
	return &blockinsight7000v1.HealthResponse{
		Status:      blockinsight7000v1.HealthStatus_HEALTH_STATUS_HEALTHY,
		Description: description,
	}, nil
}
