package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Remote reads resources and calls tools of a storebridge MCP server.
//
// Remote is safe for concurrent use. The resource and tool lists are cached
// locally and can be refreshed with [Remote.Refresh].
type Remote struct {
	client    *client.Client
	mu        sync.RWMutex
	resources map[string]mcp.Resource
	tools     map[string]mcp.Tool
}

// NewRemote connects to a storebridge MCP server started as a subprocess.
// The command is the server executable, and args are passed to it.
func NewRemote(ctx context.Context, command string, env []string, args ...string) (*Remote, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	return newRemoteFromClient(ctx, c)
}

// NewRemoteFromClient creates a Remote from an existing MCP client.
// This function starts and initializes the client, then fetches its lists.
func NewRemoteFromClient(ctx context.Context, c *client.Client) (*Remote, error) {
	return newRemoteFromClient(ctx, c)
}

func newRemoteFromClient(ctx context.Context, c *client.Client) (*Remote, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "storebridge-client",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	r := &Remote{client: c}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the connection to the MCP server.
func (r *Remote) Close() error {
	return r.client.Close()
}

// Refresh fetches the current resource and tool lists from the server.
func (r *Remote) Refresh(ctx context.Context) error {
	res, err := r.client.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}
	tools, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resources = make(map[string]mcp.Resource, len(res.Resources))
	for _, x := range res.Resources {
		r.resources[x.URI] = x
	}
	r.tools = make(map[string]mcp.Tool, len(tools.Tools))
	for _, t := range tools.Tools {
		r.tools[t.Name] = t
	}
	return nil
}

// Resources returns the URIs of every resource, sorted.
func (r *Remote) Resources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uris := make([]string, 0, len(r.resources))
	for uri := range r.resources {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// Tools returns the names of every tool, sorted.
func (r *Remote) Tools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has returns true if the server exposes a tool with the given name.
func (r *Remote) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Read returns the JSON text of a resource.
func (r *Remote) Read(ctx context.Context, uri string) (json.RawMessage, error) {
	result, err := r.client.ReadResource(ctx, mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: uri},
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", uri, err)
	}
	for _, c := range result.Contents {
		switch text := c.(type) {
		case mcp.TextResourceContents:
			return json.RawMessage(text.Text), nil
		case *mcp.TextResourceContents:
			return json.RawMessage(text.Text), nil
		}
	}
	return nil, fmt.Errorf("read %s: no text contents", uri)
}

// ReadInto decodes a resource into v.
func (r *Remote) ReadInto(ctx context.Context, uri string, v any) error {
	data, err := r.Read(ctx, uri)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", uri, err)
	}
	return nil
}

// Call invokes a tool. A tool that reports an error is returned as an error.
func (r *Remote) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	result, err := r.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		}
	}
	text := strings.Join(parts, "\n")
	if result.IsError {
		return "", fmt.Errorf("call %s: %s", name, text)
	}
	return text, nil
}
