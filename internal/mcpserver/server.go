// Package mcpserver exposes a trained embedding's searcher over an MCP
// streamable HTTP transport: contains, top-matches, cosine similarity, and
// analogy queries, each as its own tool.
package mcpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	toolContains   = "vecforge_contains"
	toolTopMatches = "vecforge_top_matches"
	toolCosine     = "vecforge_cosine"
	toolAnalogy    = "vecforge_analogy"
)

// Config controls MCP route behavior.
type Config struct {
	APIKey         string
	Stateless      bool
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedTools   []string
}

// Match is the wire form of searcher.Match, with JSON field tags.
type Match struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Backend is the minimal capability contract exposed to MCP tools.
// NewSearcherBackend adapts a *searcher.Searcher to it.
type Backend interface {
	Contains(word string) bool
	TopMatches(word string, k int) ([]Match, error)
	CosineDistance(w1, w2 string) (float64, error)
	AnalogyTop(w1, w2, w3 string, k int) ([]Match, error)
}

// NewHandler builds an MCP streamable HTTP handler with optional API-key
// auth and endpoint-local rate limiting.
func NewHandler(cfg Config, backend Backend) (http.Handler, error) {
	if backend == nil {
		return nil, fmt.Errorf("mcpserver: backend is required")
	}

	s := mcpserver.NewMCPServer(
		"vecforge-mcp",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	registerTools(s, backend, cfg.AllowedTools)

	streamable := mcpserver.NewStreamableHTTPServer(s, mcpserver.WithStateLess(cfg.Stateless))
	var h http.Handler = http.HandlerFunc(streamable.ServeHTTP)

	if strings.TrimSpace(cfg.APIKey) != "" {
		h = apiKeyMiddleware(strings.TrimSpace(cfg.APIKey), h)
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		h = rateLimitMiddleware(newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), h)
	}

	return h, nil
}

func registerTools(s *mcpserver.MCPServer, backend Backend, allowed []string) {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		name = strings.TrimSpace(name)
		if name != "" {
			allowedSet[name] = struct{}{}
		}
	}
	isAllowed := func(name string) bool {
		if len(allowedSet) == 0 {
			return true
		}
		_, ok := allowedSet[name]
		return ok
	}

	if isAllowed(toolContains) {
		s.AddTool(mcpproto.NewTool(toolContains,
			mcpproto.WithDescription("Report whether a word is present in the trained vocabulary."),
			mcpproto.WithString("word", mcpproto.Required(), mcpproto.Description("Word to look up.")),
		), func(_ context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
			args := req.GetArguments()
			word := getString(args, "word", "")
			if word == "" {
				return errResult("word is required"), nil
			}
			return structuredResult("contains checked", map[string]any{
				"word":     word,
				"contains": backend.Contains(word),
			})
		})
	}

	if isAllowed(toolTopMatches) {
		s.AddTool(mcpproto.NewTool(toolTopMatches,
			mcpproto.WithDescription("Return the k nearest neighbors to a word by cosine similarity."),
			mcpproto.WithString("word", mcpproto.Required(), mcpproto.Description("Query word.")),
			mcpproto.WithNumber("k", mcpproto.Description("Number of matches to return (optional, default 10).")),
		), func(_ context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
			args := req.GetArguments()
			word := getString(args, "word", "")
			if word == "" {
				return errResult("word is required"), nil
			}
			k := getInt(args, "k", 10)
			matches, err := backend.TopMatches(word, k)
			if err != nil {
				return errResult(err.Error()), nil
			}
			return structuredResult("top matches computed", map[string]any{
				"word":    word,
				"matches": matches,
			})
		})
	}

	if isAllowed(toolCosine) {
		s.AddTool(mcpproto.NewTool(toolCosine,
			mcpproto.WithDescription("Compute the cosine similarity between two words' embeddings."),
			mcpproto.WithString("word1", mcpproto.Required(), mcpproto.Description("First word.")),
			mcpproto.WithString("word2", mcpproto.Required(), mcpproto.Description("Second word.")),
		), func(_ context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
			args := req.GetArguments()
			w1 := getString(args, "word1", "")
			w2 := getString(args, "word2", "")
			if w1 == "" || w2 == "" {
				return errResult("word1 and word2 are required"), nil
			}
			score, err := backend.CosineDistance(w1, w2)
			if err != nil {
				return errResult(err.Error()), nil
			}
			return structuredResult("cosine computed", map[string]any{
				"word1": w1,
				"word2": w2,
				"score": score,
			})
		})
	}

	if isAllowed(toolAnalogy) {
		s.AddTool(mcpproto.NewTool(toolAnalogy,
			mcpproto.WithDescription("Solve word1 is to word2 as word3 is to ?, returning the top-k candidates."),
			mcpproto.WithString("word1", mcpproto.Required(), mcpproto.Description("First word of the pair.")),
			mcpproto.WithString("word2", mcpproto.Required(), mcpproto.Description("Second word of the pair.")),
			mcpproto.WithString("word3", mcpproto.Required(), mcpproto.Description("Word to complete the analogy for.")),
			mcpproto.WithNumber("k", mcpproto.Description("Number of matches to return (optional, default 10).")),
		), func(_ context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
			args := req.GetArguments()
			w1 := getString(args, "word1", "")
			w2 := getString(args, "word2", "")
			w3 := getString(args, "word3", "")
			if w1 == "" || w2 == "" || w3 == "" {
				return errResult("word1, word2, and word3 are required"), nil
			}
			k := getInt(args, "k", 10)
			matches, err := backend.AnalogyTop(w1, w2, w3, k)
			if err != nil {
				return errResult(err.Error()), nil
			}
			return structuredResult("analogy solved", map[string]any{
				"word1":   w1,
				"word2":   w2,
				"word3":   w3,
				"matches": matches,
			})
		})
	}
}

func textResult(text string) *mcpproto.CallToolResult {
	return &mcpproto.CallToolResult{
		Content: []mcpproto.Content{
			mcpproto.TextContent{Type: "text", Text: text},
		},
	}
}

func errResult(msg string) *mcpproto.CallToolResult {
	return &mcpproto.CallToolResult{
		Content: []mcpproto.Content{
			mcpproto.TextContent{Type: "text", Text: "Error: " + msg},
		},
		IsError: true,
	}
}

func structuredResult(summary string, data any) (*mcpproto.CallToolResult, error) {
	blob, err := json.Marshal(data)
	if err != nil {
		return errResult(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return &mcpproto.CallToolResult{
		Content: []mcpproto.Content{
			mcpproto.TextContent{Type: "text", Text: summary},
			mcpproto.TextContent{Type: "text", Text: string(blob)},
		},
	}, nil
}

func getString(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return def
}

func getInt(args map[string]any, key string, def int) int {
	v, ok := args[key].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return int(v)
}

// apiKeyMiddleware requires a single pre-shared key via X-API-Key or a
// bearer token. There is no tenant/org concept here (one process serves one
// model), so unlike a multi-tenant API this is a single fixed secret
// compared in constant time rather than looked up per caller.
func apiKeyMiddleware(expected string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := strings.TrimSpace(r.Header.Get("X-API-Key"))
		if provided == "" {
			if auth := strings.TrimSpace(r.Header.Get("Authorization")); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				provided = strings.TrimSpace(auth[len("bearer "):])
			}
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimiter is a per-remote-host token bucket: bursts up to its
// capacity, then refills at a steady rate. vecforge-serve runs as a single
// process with no reverse proxy in front of it, so the limiter keys
// directly on the host part of RemoteAddr rather than parsing forwarding
// headers.
type rateLimiter struct {
	ratePerSecond float64
	capacity      float64

	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

func newRateLimiter(ratePerSecond float64, burst int) *rateLimiter {
	return &rateLimiter{
		ratePerSecond: ratePerSecond,
		capacity:      float64(burst),
		buckets:       make(map[string]*tokenBucket),
	}
}

func (rl *rateLimiter) allow(remoteAddr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[remoteAddr]
	if !ok {
		b = &tokenBucket{tokens: rl.capacity - 1, lastRefill: now}
		rl.buckets[remoteAddr] = b
		return true
	}

	b.tokens = math.Min(rl.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*rl.ratePerSecond)
	b.lastRefill = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func rateLimitMiddleware(rl *rateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.RemoteAddr
		if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			host = h
		}
		if !rl.allow(host) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
