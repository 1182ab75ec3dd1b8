package activity

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

var fieldLabels = map[string]string{
	"name":        "Name",
	"title":       "Title",
	"description": "Description",
	"status":      "Status",
	"priority":    "Priority",
	"dueDate":     "Due Date",
	"completed":   "Completion Status",
	"assignedTo":  "Assigned To",
	"projectName": "Project",
	"teamMembers": "Team Members",
	"startDate":   "Start Date",
	"message":     "Message",
}

var dateFields = map[string]bool{"dueDate": true, "startDate": true}

// FormatChanges compares the JSON forms of before and after and returns the
// labelled fields that differ, keyed by label. Fields without a label, id,
// timestamp and null values in after are skipped.
func FormatChanges(before, after interface{}) map[string]Change {
	oldFields := toFields(before)
	newFields := toFields(after)

	keys := make([]string, 0, len(newFields))
	for k := range newFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	changes := make(map[string]Change)
	for _, key := range keys {
		if key == "id" || key == "timestamp" {
			continue
		}
		label, ok := fieldLabels[key]
		if !ok {
			continue
		}
		newValue := newFields[key]
		if newValue == nil {
			continue
		}
		oldValue, had := oldFields[key]
		if had && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		changes[label] = Change{
			From: formatValue(key, oldValue),
			To:   formatValue(key, newValue),
		}
	}
	return changes
}

func toFields(v interface{}) map[string]interface{} {
	fields := map[string]interface{}{}
	if v == nil {
		return fields
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fields
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return map[string]interface{}{}
	}
	return fields
}

func formatValue(key string, v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case bool:
		if key == "completed" {
			if value {
				return "Completed"
			}
			return "In Progress"
		}
		return fmt.Sprint(value)
	case string:
		if dateFields[key] {
			return formatDate(value)
		}
		return value
	case []interface{}:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(value)
	}
}

// formatDate renders a stored date as M/D/YYYY, leaving unparseable input
// as it is.
func formatDate(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		if t, err = time.Parse("2006-01-02", s); err != nil {
			return s
		}
	}
	return t.UTC().Format("1/2/2006")
}
