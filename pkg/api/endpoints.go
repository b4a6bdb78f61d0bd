package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/tagsearch/pkg/kit"
	"github.com/hazyhaar/tagsearch/pkg/tagdict"
	"github.com/hazyhaar/tagsearch/pkg/tagparser"
	"github.com/hazyhaar/tagsearch/pkg/tsconfig"
)

// Shared request/response types used by both HTTP and MCP transports.

const maxBatch = 100

type textReq struct {
	Config string
	Text   string
}

type lexizeReq struct {
	Config string
	Term   string
}

type batchReq struct {
	Config string
	Texts  []string
}

type tokenTypesResponse struct {
	TokenTypes []tagparser.Descriptor `json:"token_types"`
}

type configsResponse struct {
	Configs []tsconfig.ConfigInfo `json:"configs"`
}

type parseResponse struct {
	Config string                 `json:"config"`
	Tokens []tsconfig.ParsedToken `json:"tokens"`
}

type lexizeResponse struct {
	Config  string           `json:"config"`
	Term    string           `json:"term"`
	Lexemes []tagdict.Lexeme `json:"lexemes"`
}

type debugResponse struct {
	Config  string                `json:"config"`
	Tokens  []tsconfig.DebugToken `json:"tokens"`
	Lexemes []string              `json:"lexemes"`
}

type batchResponse struct {
	Results []debugResponse `json:"results"`
}

// Endpoints are the transport-agnostic actions served over HTTP and MCP.
type Endpoints struct {
	TokenTypes  kit.Endpoint
	ListConfigs kit.Endpoint
	Parse       kit.Endpoint
	Lexize      kit.Endpoint
	Debug       kit.Endpoint
	DebugBatch  kit.Endpoint
}

// NewEndpoints builds the endpoints backed by reg. Every endpoint gets a
// request ID and is logged.
func NewEndpoints(reg *tsconfig.Registry, logger *slog.Logger) *Endpoints {
	if logger == nil {
		logger = slog.Default()
	}
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.RequestID(), kit.Logging(logger, name))(ep)
	}
	return &Endpoints{
		TokenTypes:  wrap("token_types", tokenTypesEndpoint()),
		ListConfigs: wrap("list_configs", listConfigsEndpoint(reg)),
		Parse:       wrap("parse", parseEndpoint(reg)),
		Lexize:      wrap("lexize", lexizeEndpoint(reg)),
		Debug:       wrap("debug", debugEndpoint(reg)),
		DebugBatch:  wrap("debug_batch", debugBatchEndpoint(reg)),
	}
}

func tokenTypesEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return tokenTypesResponse{TokenTypes: tagparser.Categories()}, nil
	}
}

func listConfigsEndpoint(reg *tsconfig.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return configsResponse{Configs: reg.List()}, nil
	}
}

func parseEndpoint(reg *tsconfig.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*textReq)
		c, err := reg.Get(req.Config)
		if err != nil {
			return nil, err
		}
		tokens, err := c.Parse(req.Text)
		if err != nil {
			return nil, err
		}
		return parseResponse{Config: c.Manifest.ID, Tokens: tokens}, nil
	}
}

func lexizeEndpoint(reg *tsconfig.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*lexizeReq)
		c, err := reg.Get(req.Config)
		if err != nil {
			return nil, err
		}
		lexemes, err := c.Lexize(req.Term)
		if err != nil {
			return nil, err
		}
		return lexizeResponse{Config: c.Manifest.ID, Term: req.Term, Lexemes: lexemes}, nil
	}
}

func debugEndpoint(reg *tsconfig.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*textReq)
		c, err := reg.Get(req.Config)
		if err != nil {
			return nil, err
		}
		return debug(c, req.Text)
	}
}

func debugBatchEndpoint(reg *tsconfig.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*batchReq)
		if len(req.Texts) == 0 {
			return nil, fmt.Errorf("texts array is empty")
		}
		if len(req.Texts) > maxBatch {
			return nil, fmt.Errorf("too many texts (max %d, got %d)", maxBatch, len(req.Texts))
		}
		c, err := reg.Get(req.Config)
		if err != nil {
			return nil, err
		}
		results := make([]debugResponse, len(req.Texts))
		for i, text := range req.Texts {
			if results[i], err = debug(c, text); err != nil {
				return nil, fmt.Errorf("texts[%d]: %w", i, err)
			}
		}
		return batchResponse{Results: results}, nil
	}
}

func debug(c *tsconfig.Configuration, text string) (debugResponse, error) {
	tokens, err := c.Debug(text)
	if err != nil {
		return debugResponse{}, err
	}
	return debugResponse{Config: c.Manifest.ID, Tokens: tokens, Lexemes: tsconfig.DistinctLexemes(tokens)}, nil
}
