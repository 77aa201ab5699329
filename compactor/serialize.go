package compactor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/frizyai/frizycore"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Format is a serialization target for a compaction result.
type Format string

const (
	// FormatJSON is a structured dump of the included items plus summary.
	FormatJSON Format = "json"

	// FormatMarkdown is a human-readable export grouped by lane.
	FormatMarkdown Format = "markdown"

	// FormatText is the markdown-equivalent flattened to plain text.
	FormatText Format = "txt"

	// FormatHTML is the markdown export rendered to sanitized HTML.
	FormatHTML Format = "html"
)

// IsValid returns true if the format is a known Format value.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatMarkdown, FormatText, FormatHTML:
		return true
	default:
		return false
	}
}

// ProjectMetadata is host-supplied project context rendered as the export
// header.
type ProjectMetadata struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Phase       string `json:"phase,omitempty" yaml:"phase"`
}

// Content truncation bounds for compressed tiers.
const (
	summaryMaxLines = 5
	summaryMaxChars = 400
	minimalMaxChars = 120
)

// Serialize renders a compaction result in the given format. Only included
// items are serialized; excluded items stay in the result for UI display
// but never reach the export.
//
// Output is deterministic for identical input: the only timestamp is the
// result's own GeneratedAt header.
func Serialize(result *Result, format Format, meta *ProjectMetadata) (string, error) {
	if result == nil {
		return "", NewCompactionError("Serialize", ErrNilResult)
	}

	switch format {
	case FormatJSON:
		return serializeJSON(result, meta)
	case FormatMarkdown:
		return serializeMarkdown(result, meta, true), nil
	case FormatText:
		return serializeMarkdown(result, meta, false), nil
	case FormatHTML:
		return serializeHTML(result, meta)
	default:
		return "", NewCompactionError("Serialize", ErrUnknownFormat).
			WithContext("format", string(format))
	}
}

// jsonExport is the wire shape of the JSON format.
type jsonExport struct {
	Project     *ProjectMetadata `json:"project,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     Summary          `json:"summary"`
	Items       []ScoredItem     `json:"items"`
}

func serializeJSON(result *Result, meta *ProjectMetadata) (string, error) {
	export := jsonExport{
		Project:     meta,
		GeneratedAt: result.GeneratedAt,
		Summary:     result.Summary,
		Items:       result.Included(),
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", NewCompactionError("Serialize", err)
	}
	return string(data), nil
}

// serializeMarkdown renders the included items grouped by lane, in rank
// order within each lane. With markup false it emits the same structure as
// plain text.
func serializeMarkdown(result *Result, meta *ProjectMetadata, markup bool) string {
	var b strings.Builder

	title := "Project Context"
	if meta != nil && meta.Name != "" {
		title = meta.Name
	}
	if markup {
		fmt.Fprintf(&b, "# %s\n\n", title)
	} else {
		fmt.Fprintf(&b, "%s\n\n", title)
	}

	if meta != nil && meta.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", meta.Description)
	}
	if meta != nil && meta.Phase != "" {
		fmt.Fprintf(&b, "Phase: %s\n\n", meta.Phase)
	}
	fmt.Fprintf(&b, "Generated at: %s\n\n", result.GeneratedAt.UTC().Format(time.RFC3339))

	included := result.Included()

	// Group by lane, preserving first-appearance (rank) order of lanes.
	var lanes []string
	byLane := make(map[string][]ScoredItem)
	for _, item := range included {
		lane := item.Item.Lane
		if lane == "" {
			lane = "uncategorized"
		}
		if _, seen := byLane[lane]; !seen {
			lanes = append(lanes, lane)
		}
		byLane[lane] = append(byLane[lane], item)
	}

	for _, lane := range lanes {
		if markup {
			fmt.Fprintf(&b, "## %s\n\n", lane)
		} else {
			fmt.Fprintf(&b, "%s\n\n", strings.ToUpper(lane))
		}

		for _, item := range byLane[lane] {
			writeItem(&b, item, markup)
		}
	}

	fmt.Fprintf(&b, "---\n%d of %d items included, avg score %.2f\n",
		result.Summary.IncludedItems, result.Summary.TotalItems, result.Summary.AverageScore)

	return b.String()
}

// writeItem renders a single item at its assigned compression tier.
func writeItem(b *strings.Builder, item ScoredItem, markup bool) {
	header := fmt.Sprintf("%s [%s/%s]", item.Item.Title, item.Item.Status, item.Item.Priority)
	if markup {
		fmt.Fprintf(b, "### %s\n\n", header)
	} else {
		fmt.Fprintf(b, "- %s\n", header)
	}

	content := contentForLevel(item.Item.Content, item.Compression)
	if content != "" {
		if !markup {
			content = indent(content, "  ")
		}
		fmt.Fprintf(b, "%s\n", content)
	}
	fmt.Fprintln(b)
}

// contentForLevel truncates item content for the given compression tier.
// Used both by the serializer and by the result summary's size estimate.
func contentForLevel(content string, level CompressionLevel) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	switch level {
	case CompressionFull:
		return content
	case CompressionSummary:
		lines := strings.Split(content, "\n")
		if len(lines) > summaryMaxLines {
			lines = lines[:summaryMaxLines]
		}
		return truncate(strings.Join(lines, "\n"), summaryMaxChars)
	default:
		line, _, _ := strings.Cut(content, "\n")
		return truncate(line, minimalMaxChars)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// serializeHTML renders the markdown export to sanitized HTML.
func serializeHTML(result *Result, meta *ProjectMetadata) (string, error) {
	md := serializeMarkdown(result, meta, true)

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", NewCompactionError("Serialize", err).WithContext("format", "html")
	}

	return bluemonday.UGCPolicy().Sanitize(buf.String()), nil
}

// Export compacts and serializes in one step, for hosts that do not need
// the intermediate result.
func (c *Compactor) Export(
	items []frizycore.WorkItem,
	cfg *Config,
	isUserImportant map[string]bool,
	overrides map[string]Override,
	format Format,
	meta *ProjectMetadata,
) (string, error) {
	result, err := c.Compact(items, cfg, isUserImportant, overrides)
	if err != nil {
		return "", err
	}
	return Serialize(result, format, meta)
}
