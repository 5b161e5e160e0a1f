// Package mcp exposes a bridge over MCP (Model Context Protocol).
//
// Selectors are published as read-only JSON resources under
// storebridge://<slice>/<selector>, and each allow-listed command is a tool.
// Nothing outside the gateway's allow-list becomes a tool, and every tool
// call still passes through the gateway.
//
// # Serving
//
//	b := bridge.New(s, gateway.New(s))
//	if err := mcp.ServeStdio(b); err != nil {
//	    log.Fatal(err)
//	}
//
// # Consuming
//
//	remote, err := mcp.NewRemote(ctx, "storebridge", nil, "mcp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	docs, err := remote.Read(ctx, mcp.ResourceURI("search", "AllDocuments"))
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge/bridge"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/model"
)

// command binds one MCP tool to a gateway constructor.
type command struct {
	tool  mcp.Tool
	build func(mcp.CallToolRequest) (gateway.Descriptor, error)
}

func scopeEnum() []string {
	return []string{string(model.ScopeEverything), string(model.ScopeTitles), string(model.ScopeTags)}
}

// commands lists one tool per allowed command.
func commands() []command {
	return []command{
		{
			tool: mcp.NewTool("load_search",
				mcp.WithDescription("Run a search over the document index"),
				mcp.WithString("q", mcp.Required(), mcp.Description("Search text")),
				mcp.WithString("scope", mcp.Description("Fields to match"), mcp.Enum(scopeEnum()...), mcp.DefaultString(string(model.ScopeEverything))),
			),
			build: func(req mcp.CallToolRequest) (gateway.Descriptor, error) {
				q, err := req.RequireString("q")
				if err != nil {
					return gateway.Descriptor{}, err
				}
				scope := model.Scope(req.GetString("scope", string(model.ScopeEverything)))
				return gateway.LoadSearch(model.Query{Q: q, Scope: scope}), nil
			},
		},
		{
			tool: mcp.NewTool("clear_search", mcp.WithDescription("Clear the search results")),
			build: func(mcp.CallToolRequest) (gateway.Descriptor, error) {
				return gateway.ClearSearch(), nil
			},
		},
		{
			tool: mcp.NewTool("select_document",
				mcp.WithDescription("Select a document from the results"),
				mcp.WithString("id", mcp.Required(), mcp.Description("Document id")),
			),
			build: func(req mcp.CallToolRequest) (gateway.Descriptor, error) {
				id, err := req.RequireString("id")
				if err != nil {
					return gateway.Descriptor{}, err
				}
				return gateway.SelectDocument(id), nil
			},
		},
		{
			tool: mcp.NewTool("set_search_scope",
				mcp.WithDescription("Set the fields the next search matches"),
				mcp.WithString("scope", mcp.Required(), mcp.Enum(scopeEnum()...)),
			),
			build: func(req mcp.CallToolRequest) (gateway.Descriptor, error) {
				scope, err := req.RequireString("scope")
				if err != nil {
					return gateway.Descriptor{}, err
				}
				return gateway.SetSearchScope(model.Scope(scope)), nil
			},
		},
		{
			tool: mcp.NewTool("load_user_profile", mcp.WithDescription("Load the signed-in user's profile")),
			build: func(mcp.CallToolRequest) (gateway.Descriptor, error) {
				return gateway.LoadUserProfile(), nil
			},
		},
		{
			tool: mcp.NewTool("set_language",
				mcp.WithDescription("Set the display language"),
				mcp.WithString("language", mcp.Required(), mcp.Description("Language tag, e.g. en")),
			),
			build: func(req mcp.CallToolRequest) (gateway.Descriptor, error) {
				lang, err := req.RequireString("language")
				if err != nil {
					return gateway.Descriptor{}, err
				}
				return gateway.SetLanguage(lang), nil
			},
		},
		{
			tool: mcp.NewTool("load_filters", mcp.WithDescription("Load the filter catalog")),
			build: func(mcp.CallToolRequest) (gateway.Descriptor, error) {
				return gateway.LoadFilters(), nil
			},
		},
		{
			tool: mcp.NewTool("set_filter_active",
				mcp.WithDescription("Turn a filter on or off"),
				mcp.WithString("id", mcp.Required(), mcp.Description("Filter id")),
				mcp.WithBoolean("active", mcp.Required()),
			),
			build: func(req mcp.CallToolRequest) (gateway.Descriptor, error) {
				id, err := req.RequireString("id")
				if err != nil {
					return gateway.Descriptor{}, err
				}
				active, err := req.RequireBool("active")
				if err != nil {
					return gateway.Descriptor{}, err
				}
				return gateway.SetFilterActive(id, active), nil
			},
		},
		{
			tool: mcp.NewTool("reset_filters", mcp.WithDescription("Turn every filter off")),
			build: func(mcp.CallToolRequest) (gateway.Descriptor, error) {
				return gateway.ResetFilters(), nil
			},
		},
	}
}

func commandHandler(b *bridge.Bridge, c command, logger *zap.Logger) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		d, err := c.build(req)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
		}
		if err := b.Dispatch(d); err != nil {
			logger.Warn("tool rejected", zap.String("tool", c.tool.Name), zap.Error(err))
			return mcp.NewToolResultErrorFromErr("command rejected", err), nil
		}
		return mcp.NewToolResultText("dispatched " + string(d.Type())), nil
	}
}
