package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultReferenceModelPath = "docs/DATA_MODEL.md"
	referenceFetchTimeout     = 30 * time.Second
)

// Published Neo4j data models the enrichment falls back to when the caller
// supplies no sources of their own.
var defaultReferenceModelURLs = []string{
	"https://neo4j.com/developer/industry-use-cases/_attachments/transaction-base-model.txt",
	"https://neo4j.com/developer/industry-use-cases/_attachments/fraud-event-sequence-model.txt",
}

// EnrichSchemaInput carries the optional reference model sources for the
// enrich-schema tool.
type EnrichSchemaInput struct {
	ReferenceModelURLs string `json:"reference_model_urls,omitempty"`
	ReferenceModelPath string `json:"reference_model_path,omitempty"`
}

// EnrichmentRequest is the enrich-schema payload: the live schema, the
// reference models, and the prompt that turns one into an annotated
// version of the other.
type EnrichmentRequest struct {
	RawSchema      string `json:"raw_schema"`
	ReferenceModel string `json:"reference_model"`
	Prompt         string `json:"prompt"`
	Instructions   string `json:"instructions"`
}

// EnrichSchemaHandler returns the handler for the enrich-schema tool.
func EnrichSchemaHandler(deps *tools.ToolDependencies, schemaSampleSize int) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleEnrichSchema(ctx, request, deps, schemaSampleSize)
	}
}

// handleEnrichSchema pairs the live database schema with reference data
// models. The annotation itself happens in the calling LLM; this tool only
// assembles its inputs.
func handleEnrichSchema(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies, schemaSampleSize int) (*mcp.CallToolResult, error) {
	if deps.DBService == nil {
		errMessage := "database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("enrich-schema"))
	slog.Info("enriching claims schema with contextual information")

	rawSchemaText, errResult := currentSchemaText(ctx, deps, schemaSampleSize)
	if errResult != nil {
		return errResult, nil
	}

	var args EnrichSchemaInput
	if err := request.BindArguments(&args); err != nil {
		slog.Warn("failed to bind enrich-schema arguments, using defaults", "error", err)
	}

	referenceModel := gatherReferenceModels(ctx, args)

	response := EnrichmentRequest{
		RawSchema:      rawSchemaText,
		ReferenceModel: referenceModel,
		Prompt:         buildEnrichmentPrompt(rawSchemaText, referenceModel),
		Instructions:   enrichmentInstructions,
	}
	payload, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		slog.Error("failed to serialize enrichment request", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

// currentSchemaText runs the get-schema tool and unwraps its text payload.
// An error result from get-schema is handed back to the caller unchanged.
func currentSchemaText(ctx context.Context, deps *tools.ToolDependencies, schemaSampleSize int) (string, *mcp.CallToolResult) {
	result, err := GetSchemaHandler(deps, schemaSampleSize)(ctx, mcp.CallToolRequest{})
	if err != nil {
		slog.Error("failed to retrieve raw schema", "error", err)
		return "", mcp.NewToolResultError(fmt.Sprintf("failed to retrieve raw schema: %v", err))
	}
	if result.IsError {
		return "", result
	}
	if len(result.Content) == 0 {
		return "", mcp.NewToolResultError("empty schema result")
	}
	textContent, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "", mcp.NewToolResultError("unexpected schema result format")
	}
	return textContent.Text, nil
}

// gatherReferenceModels loads every requested reference model, labelled by
// its source. With no explicit sources it takes the published Neo4j models
// plus the bundled claims data model when that file ships alongside the
// binary. Sources that fail to load are skipped, not fatal.
func gatherReferenceModels(ctx context.Context, args EnrichSchemaInput) string {
	urls := parseURLList(args.ReferenceModelURLs)
	path := args.ReferenceModelPath
	if len(urls) == 0 && path == "" {
		urls = defaultReferenceModelURLs
		if _, err := os.Stat(defaultReferenceModelPath); err == nil {
			path = defaultReferenceModelPath
		}
	}

	var sections []string
	for _, url := range urls {
		content, err := fetchReferenceModelFromURL(ctx, url)
		if err != nil {
			slog.Warn("failed to fetch reference model", "url", url, "error", err)
			continue
		}
		sections = append(sections, fmt.Sprintf("=== Reference Model from %s ===\n%s", url, content))
	}
	if path != "" {
		content, err := loadReferenceModelFromFile(path)
		if err != nil {
			slog.Warn("failed to load reference model file", "path", path, "error", err)
		} else {
			sections = append(sections, fmt.Sprintf("=== Local Reference Model from %s ===\n%s", path, content))
		}
	}

	if len(sections) == 0 {
		slog.Warn("no reference models could be loaded, proceeding without them")
		return "No reference models available"
	}
	return strings.Join(sections, "\n\n")
}

// parseURLList splits a comma-separated URL list, dropping empties.
func parseURLList(urls string) []string {
	var result []string
	for _, url := range strings.Split(urls, ",") {
		if url = strings.TrimSpace(url); url != "" {
			result = append(result, url)
		}
	}
	return result
}

func fetchReferenceModelFromURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	client := &http.Client{Timeout: referenceFetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}

// loadReferenceModelFromFile reads a reference model from disk. Relative
// paths resolve against the working directory first, then against the
// executable's directory, so the bundled model is found no matter where
// the server was started.
func loadReferenceModelFromFile(path string) (string, error) {
	if filepath.IsAbs(path) {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading reference model: %w", err)
		}
		return string(content), nil
	}

	candidates := []string{path}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), path))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		content, err := os.ReadFile(candidate)
		if err != nil {
			return "", fmt.Errorf("reading reference model: %w", err)
		}
		return string(content), nil
	}
	return "", fmt.Errorf("reference model file not found: %s", path)
}

const enrichmentInstructions = `The response carries the raw database schema and the reference data models; the enrichment itself happens in the calling LLM.

Produce a JSON document that annotates every node label, relationship type, and property of the raw schema:
1. Match each element against the reference models. Tolerate renames and synonyms (a cust_id property matches customerId) and record a confidence between 0.0 and 1.0 per match.
2. Describe what each element means for insurance claims handling and which fraud signals it feeds.
3. List recommended properties, relationships, constraints, and indexes the reference models carry but the database lacks.
4. Note where the live schema deviates from the reference patterns.

Shape the output as {"enrichedSchema": [...], "summary": {...}}: each enrichedSchema entry holds the element key, its description, property annotations, relationship semantics, and missing recommended fields; summary aggregates totals, deviations, and suggestions. Partial matches are still useful, so annotate what you can and mark the rest unmatched.`

// buildEnrichmentPrompt renders the enrichment prompt around the two
// inputs.
func buildEnrichmentPrompt(rawSchema, referenceModel string) string {
	return fmt.Sprintf(`You are a Neo4j data modeling expert working on insurance claims graphs and fraud detection patterns.

Enrich the raw database schema below with business context by matching it against the reference data models.

RAW DATABASE SCHEMA:
%s

REFERENCE DATA MODEL:
%s

Work through the schema element by element: match nodes, relationships, and properties to the reference models (fuzzy matches and synonyms count, scored by confidence), describe the business meaning of each element and its role in fraud detection, flag missing recommended properties, relationships, constraints, and indexes, and call out deviations from the reference patterns. Do not require perfect matches; partial annotations beat none.

Return a single JSON object with the enriched schema and a summary of findings.`, rawSchema, referenceModel)
}
