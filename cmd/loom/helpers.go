package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func printIssueList(out io.Writer, label string, issues []string) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", label)
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
}

func formatPercent(fraction float64) string {
	return strconv.Itoa(int(fraction*100+0.5)) + "%"
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
