// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes MomWise tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/momwise/momwise/internal/apperr"
	"github.com/momwise/momwise/internal/artifactservice"
	"github.com/momwise/momwise/internal/llm"
	"github.com/momwise/momwise/internal/models"
)

// ArtifactService serves cached or freshly generated artifacts.
type ArtifactService interface {
	GetOrGenerate(ctx context.Context, req artifactservice.Request) (models.Payload, error)
}

// Assistant answers chat messages.
type Assistant interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Server wraps the MCP server with MomWise tools. All tools act on behalf of
// a single configured user.
type Server struct {
	mcp       *server.MCPServer
	artifacts ArtifactService
	assistant Assistant
	userID    string
}

// New creates a new MCP server with all MomWise tools registered.
func New(artifacts ArtifactService, assistant Assistant, userID string) *Server {
	s := &Server{artifacts: artifacts, assistant: assistant, userID: userID}

	s.mcp = server.NewMCPServer(
		"MomWise",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_diet_plan",
		mcp.WithDescription("Get the seven-day pregnancy diet plan for a week. "+
			"Plans are cached; pass regenerate=true to create a new one. "+
			"See the momwise://payload-format resource for the document shape."),
		mcp.WithNumber("week", mcp.Required(), mcp.Description("Pregnancy week (1-42)")),
		mcp.WithBoolean("regenerate", mcp.Description("Ignore the cached plan and generate a new one")),
	), s.getDietPlan)

	s.mcp.AddTool(mcp.NewTool("get_timeline",
		mcp.WithDescription("Get the baby development and body changes timeline for a pregnancy week."),
		mcp.WithNumber("week", mcp.Required(), mcp.Description("Pregnancy week (1-42)")),
		mcp.WithBoolean("regenerate", mcp.Description("Ignore the cached timeline and generate a new one")),
	), s.getTimeline)

	s.mcp.AddTool(mcp.NewTool("ask_assistant",
		mcp.WithDescription("Ask the MomWise pregnancy assistant a question. Answers are not medical advice."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The question to ask")),
	), s.askAssistant)

	s.mcp.AddResource(
		mcp.NewResource("momwise://payload-format", "Payload Format",
			mcp.WithResourceDescription("Shape of the diet plan and timeline documents."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPayloadFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getDietPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.artifact(ctx, req, models.KindDietPlan)
}

func (s *Server) getTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.artifact(ctx, req, models.KindTimeline)
}

func (s *Server) artifact(ctx context.Context, req mcp.CallToolRequest, kind models.Kind) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.artifacts.GetOrGenerate(ctx, artifactservice.Request{
		UserID: s.userID,
		Week:   week,
		Kind:   kind,
		Force:  req.GetBool("regenerate", false),
	})
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) askAssistant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reply, err := s.assistant.Reply(ctx, message)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) readPayloadFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "momwise://payload-format",
			MIMEType: "text/markdown",
			Text:     PayloadContract,
		},
	}, nil
}

func toolError(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, apperr.ErrUnauthenticated):
		return "no user configured; start the server with --user"
	case errors.Is(err, apperr.ErrConfiguration):
		return "server configuration error: the model API key is not set"
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		return fmt.Sprintf("error calling external API: %s", llm.Detail(err))
	default:
		return err.Error()
	}
}
