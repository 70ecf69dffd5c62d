package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "docqa://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Service status: vector backend reachability and pending ingest jobs",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleStatusResource reports backend connectivity and queue depth.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type statusInfo struct {
		BackendConnected bool `json:"backend_connected"`
		PendingJobs      int  `json:"pending_jobs"`
	}

	var info statusInfo
	if s.ports.Index != nil {
		info.BackendConnected = s.ports.Index.HealthCheck(ctx)
	}
	if s.ports.Queue != nil {
		pending, err := s.ports.Queue.Pending(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting pending jobs: %w", err)
		}
		info.PendingJobs = pending
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
