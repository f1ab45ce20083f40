package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/neilberkman/reviewrider/internal/core/history"
	"github.com/neilberkman/reviewrider/internal/core/models"
	"github.com/neilberkman/reviewrider/internal/core/store"
)

// ListHistoryArgs defines arguments for the list_history tool
type ListHistoryArgs struct {
	Query string `json:"query,omitempty" jsonschema:"description=Filter in history syntax (type:single, after:2025-01-01, free text)"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Max entries to return (default: 20)"`
}

// GetHistoryEntryArgs defines arguments for the get_history_entry tool
type GetHistoryEntryArgs struct {
	Index *int `json:"index" jsonschema:"description=0-based position in history (0 is newest),required"`
}

// SessionState is the persisted session as reported by get_session
type SessionState struct {
	Mode             string        `json:"mode"`
	ComparisonInputs []string      `json:"comparison_inputs"`
	LastScreen       string        `json:"last_screen"`
	LastResult       *ResultDetail `json:"last_result,omitempty"`
	HistorySize      int           `json:"history_size"`
}

// HistorySummary represents an entry in the list view
type HistorySummary struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
}

// ResultDetail is a full analysis result
type ResultDetail struct {
	Type           string       `json:"type"`
	Title          string       `json:"title"`
	ProductName    string       `json:"product_name,omitempty"`
	Analysis       string       `json:"analysis,omitempty"`
	Products       []ItemDetail `json:"products,omitempty"`
	Recommendation string       `json:"recommendation,omitempty"`
	Timestamp      string       `json:"timestamp,omitempty"`
}

// ItemDetail is one product of a comparison
type ItemDetail struct {
	ProductName string `json:"product_name"`
	ReviewCount *int   `json:"review_count,omitempty"`
	Analysis    string `json:"analysis"`
}

// NewServer builds the MCP server over s. Tools only read; every call
// reloads the session so changes made by a running TUI are visible.
func NewServer(s *store.Store, version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"ReviewRider",
		version,
	)

	sessionTool := mcp.NewTool("get_session",
		mcp.WithDescription("Get the saved review-analysis session: mode, comparison inputs, last screen and the last analysis result"),
	)
	srv.AddTool(sessionTool, makeGetSessionHandler(s))

	listTool := mcp.NewTool("list_history",
		mcp.WithDescription("List past product review analyses, newest first, optionally filtered"),
		mcp.WithString("query",
			mcp.Description("Filter: free text, type:single|multi, after:<date>, before:<date> (ISO date or natural language like 'yesterday')")),
		mcp.WithNumber("limit",
			mcp.Description("Max entries to return (default: 20)")),
	)
	srv.AddTool(listTool, makeListHistoryHandler(s))

	entryTool := mcp.NewTool("get_history_entry",
		mcp.WithDescription("Retrieve the full text of one past analysis by its position in history"),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("0-based position in history; 0 is the newest entry")),
	)
	srv.AddTool(entryTool, makeGetHistoryEntryHandler(s))

	return srv
}

// StartServer serves the tools over stdio until the client disconnects
func StartServer(s *store.Store, version string, logger *zap.Logger) error {
	logger.Info("Starting MCP server")
	return server.ServeStdio(NewServer(s, version))
}

func makeGetSessionHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap := s.Snapshot()

		state := SessionState{
			Mode:             string(snap.Mode),
			ComparisonInputs: snap.ComparisonInputs[:],
			LastScreen:       string(snap.LastScreen),
			HistorySize:      len(snap.History),
		}
		if snap.LastResult != nil {
			detail := toResultDetail(snap.LastResult, time.Time{})
			state.LastResult = &detail
		}

		return jsonResult(state)
	}
}

func makeListHistoryHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListHistoryArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		// Set defaults (interface concern - pagination)
		limit := args.Limit
		if limit <= 0 {
			limit = history.Capacity
		}

		rows := history.Select(s.Snapshot().History, history.ParseFilter(args.Query, time.Now()))

		entries := []HistorySummary{}
		for _, row := range rows {
			entries = append(entries, HistorySummary{
				Index:     row.Index,
				Title:     history.DisplayTitle(row.Entry),
				Kind:      history.KindLabel(row.Entry),
				Timestamp: row.Entry.Timestamp.Format(time.RFC3339),
			})
			if len(entries) >= limit {
				break
			}
		}

		return jsonResult(map[string]interface{}{
			"entries": entries,
		})
	}
}

func makeGetHistoryEntryHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetHistoryEntryArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Index == nil {
			return mcp.NewToolResultError("index is required"), nil
		}

		log := history.New(nil, s.Snapshot().History)
		entry, err := log.At(*args.Index)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(toResultDetail(entry.Result, entry.Timestamp))
	}
}

func toResultDetail(r models.AnalysisResult, ts time.Time) ResultDetail {
	detail := ResultDetail{
		Type:  string(r.Mode()),
		Title: r.DisplayTitle(),
	}
	if !ts.IsZero() {
		detail.Timestamp = ts.Format(time.RFC3339)
	}

	switch r := r.(type) {
	case models.SingleResult:
		detail.ProductName = r.ProductName
		detail.Analysis = r.AnalysisText
	case models.MultiResult:
		detail.Recommendation = r.OverallRecommendation
		for _, it := range r.Items {
			detail.Products = append(detail.Products, ItemDetail{
				ProductName: it.ProductName,
				ReviewCount: it.ReviewCount,
				Analysis:    it.AnalysisText,
			})
		}
	}
	return detail
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}
