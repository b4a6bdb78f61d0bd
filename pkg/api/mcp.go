package api

import (
	"fmt"

	"github.com/hazyhaar/tagsearch/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer returns an MCP server exposing the tagsearch tools.
func NewMCPServer(eps *Endpoints, version string) *server.MCPServer {
	srv := server.NewMCPServer("tagsearch", version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, eps)
	return srv
}

// RegisterMCPTools registers the tagsearch MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, eps *Endpoints) {
	configArg := mcp.WithString("config", mcp.Description("Text-search configuration ID (default: \"default\")"))

	kit.RegisterMCPTool(srv, mcp.NewTool("ts_token_types",
		mcp.WithDescription("List the token types emitted by the tag parser."),
	), eps.TokenTypes, noArgs)

	kit.RegisterMCPTool(srv, mcp.NewTool("list_configs",
		mcp.WithDescription("List the loaded text-search configurations (encoding, locale, split_tags)."),
	), eps.ListConfigs, noArgs)

	kit.RegisterMCPTool(srv, mcp.NewTool("ts_parse",
		mcp.WithDescription("Split a space-separated tag list into tokens, classifying each as tag or fulltag (category:value)."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The tag list to parse")),
		configArg,
	), eps.Parse, decodeTextReq)

	kit.RegisterMCPTool(srv, mcp.NewTool("ts_lexize",
		mcp.WithDescription("Normalize a single tag into its indexable lexemes."),
		mcp.WithString("term", mcp.Required(), mcp.Description("The tag to normalize")),
		configArg,
	), eps.Lexize, decodeLexizeReq)

	kit.RegisterMCPTool(srv, mcp.NewTool("ts_debug",
		mcp.WithDescription("Parse a tag list and show the lexemes derived from every token."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The tag list to analyze")),
		configArg,
	), eps.Debug, decodeTextReq)
}

func noArgs(mcp.CallToolRequest) (any, error) {
	return nil, nil
}

func decodeTextReq(req mcp.CallToolRequest) (any, error) {
	args := req.GetArguments()
	text, ok := args["text"].(string)
	if !ok {
		return nil, fmt.Errorf("text is required")
	}
	config, _ := args["config"].(string)
	return &textReq{Config: config, Text: text}, nil
}

func decodeLexizeReq(req mcp.CallToolRequest) (any, error) {
	args := req.GetArguments()
	term, ok := args["term"].(string)
	if !ok {
		return nil, fmt.Errorf("term is required")
	}
	config, _ := args["config"].(string)
	return &lexizeReq{Config: config, Term: term}, nil
}
