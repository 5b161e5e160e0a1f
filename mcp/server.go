package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge/bridge"
	"github.com/spetersoncode/storebridge/internal/logging"
)

// Scheme prefixes every resource URI.
const Scheme = "storebridge://"

// ManifestURI is the resource holding the gateway manifest.
const ManifestURI = Scheme + "gateway/manifest"

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name        string
	version     string
	readTimeout time.Duration
	logger      *zap.Logger
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithReadTimeout bounds every resource read. Defaults to 5s; zero leaves
// reads bounded only by the request context.
func WithReadTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		c.readTimeout = d
	}
}

// WithLogger sets the server logger. Defaults to the module logger.
func WithLogger(l *zap.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ResourceURI returns the URI of a selector resource.
func ResourceURI(slice, selector string) string {
	return Scheme + slice + "/" + selector
}

// NewServer creates an MCP server over a bridge. Every selector becomes a
// JSON resource and every allowed command becomes a tool.
//
// Example:
//
//	b := bridge.New(s, gateway.New(s))
//	srv := mcp.NewServer(b, mcp.WithName("storebridge"))
//	server.ServeStdio(srv)
func NewServer(b *bridge.Bridge, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:        "storebridge",
		version:     "1.0.0",
		readTimeout: 5 * time.Second,
		logger:      logging.Named("mcp"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	for _, r := range b.Resources() {
		src := r.Source
		res := mcp.NewResource(
			ResourceURI(r.Slice, src.Name()),
			src.Name(),
			mcp.WithResourceDescription("Projection of "+src.Path()),
			mcp.WithMIMEType("application/json"),
		)
		s.AddResource(res, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			if cfg.readTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.readTimeout)
				defer cancel()
			}
			v, err := src.Value(ctx)
			if err != nil {
				cfg.logger.Warn("resource read failed", zap.String("uri", req.Params.URI), zap.Error(err))
				return nil, err
			}
			return jsonContents(req.Params.URI, v)
		})
	}

	s.AddResource(
		mcp.NewResource(ManifestURI, "Manifest",
			mcp.WithResourceDescription("Classification of every declared mutation"),
			mcp.WithMIMEType("application/json"),
		),
		func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return jsonContents(req.Params.URI, b.Manifest())
		},
	)

	for _, c := range commands() {
		s.AddTool(c.tool, commandHandler(b, c, cfg.logger))
	}

	return s
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
func ServeStdio(b *bridge.Bridge, opts ...ServerOption) error {
	if err := server.ServeStdio(NewServer(b, opts...)); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
