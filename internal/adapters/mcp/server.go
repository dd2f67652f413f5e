// Package mcpadapter exposes the vetting engine as MCP tools so assistants can
// classify and vet loan documents without going through HTTP.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
	"github.com/kirillkom/loan-document-vetting/internal/core/ports"
)

const (
	serverName    = "loan-document-vetting"
	serverVersion = "1.0.0"

	maxTextBytes = 2 << 20
)

type Tools struct {
	classifier ports.DocumentClassifier
	vetter     ports.TextVetter
	library    *patterns.Library
	logger     *slog.Logger
}

func NewTools(classifier ports.DocumentClassifier, vetter ports.TextVetter, library *patterns.Library, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{classifier: classifier, vetter: vetter, library: library, logger: logger}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(tools *Tools) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	textArgs := []mcp.ToolOption{
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("Original file name, used as a classification hint, e.g. 2024_form_1040.pdf"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Plain text extracted from the document"),
		),
	}

	s.AddTool(mcp.NewTool("classify_document",
		append([]mcp.ToolOption{mcp.WithDescription("Identify which required loan document type a text belongs to")}, textArgs...)...,
	), tools.ClassifyDocument)

	s.AddTool(mcp.NewTool("vet_document",
		append([]mcp.ToolOption{mcp.WithDescription("Classify and validate a loan document, returning status, confidence, issues and extracted fields")}, textArgs...)...,
	), tools.VetDocument)

	s.AddTool(mcp.NewTool("list_requirements",
		mcp.WithDescription("List the required loan document types with their pass thresholds and required fields"),
	), tools.ListRequirements)

	return s
}

func (t *Tools) ClassifyDocument(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, text, errResult := textArguments(request)
	if errResult != nil {
		return errResult, nil
	}
	category := t.classifier.Classify(filename, text)
	return jsonResult(map[string]string{
		"category": category.String(),
		"title":    category.Title(),
	})
}

func (t *Tools) VetDocument(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, text, errResult := textArguments(request)
	if errResult != nil {
		return errResult, nil
	}
	result := t.vetter.VetText(filename, text)
	t.logger.Info("mcp_vet_document",
		"filename", filename,
		"category", result.Category.String(),
		"status", string(result.Status),
		"confidence", result.Confidence,
	)
	return jsonResult(result)
}

type requirement struct {
	Category       domain.Category `json:"category"`
	Title          string          `json:"title"`
	Threshold      float64         `json:"threshold"`
	MaxIssues      *int            `json:"max_issues"`
	RequiredFields []string        `json:"required_fields"`
	MustBeSigned   bool            `json:"must_be_signed"`
	MinLength      int             `json:"min_length,omitempty"`
}

func (t *Tools) ListRequirements(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := make([]requirement, 0, len(domain.Categories()))
	for _, category := range domain.Categories() {
		rule := t.library.RulesFor(category)
		req := requirement{
			Category:       category,
			Title:          category.Title(),
			Threshold:      rule.Threshold,
			RequiredFields: make([]string, 0, len(rule.RequiredFields)),
			MustBeSigned:   rule.MustBeSigned,
			MinLength:      rule.MinLength,
		}
		if rule.GatesOnIssues() {
			tolerance := rule.Tolerance
			req.MaxIssues = &tolerance
		}
		for _, f := range rule.RequiredFields {
			req.RequiredFields = append(req.RequiredFields, f.Name)
		}
		out = append(out, req)
	}
	return jsonResult(out)
}

func textArguments(request mcp.CallToolRequest) (string, string, *mcp.CallToolResult) {
	filename, err := request.RequireString("filename")
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	text, err := request.RequireString("text")
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return "", "", mcp.NewToolResultError("text must not be empty")
	}
	if len(text) > maxTextBytes {
		return "", "", mcp.NewToolResultError(fmt.Sprintf("text exceeds %d bytes", maxTextBytes))
	}
	return strings.TrimSpace(filename), text, nil
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
