package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/common/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError("id", fmt.Sprintf("invalid id %q", s), internal.ErrCodeValidationFailed)
	}
	return id, nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitIDs(s string) ([]int64, error) {
	parts := splitList(s)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := parseID(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(workflow.DateLayout)
}

// changedString returns a pointer to the flag's value when it was set on
// the command line.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func flagInt(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func sortFlags(fs *pflag.FlagSet) {
	fs.String("sort", "", "sort by dueDate, priority or status")
	fs.String("dir", "asc", "sort direction: asc or desc")
}

func sortOptions(cmd *cobra.Command) (workflow.SortOptions, error) {
	field := flagString(cmd, "sort")
	if field == "" {
		return workflow.SortOptions{}, nil
	}
	return workflow.ParseSort(field, flagString(cmd, "dir"))
}

func parseOptionalStatus(s string) (workflow.Status, error) {
	if s == "" {
		return "", nil
	}
	return workflow.ParseStatus(s)
}

func parseOptionalPriority(s string) (workflow.Priority, error) {
	if s == "" {
		return "", nil
	}
	return workflow.ParsePriority(s)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
