package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

func DefaultFormat() string {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return "table"
	}
	return "json"
}

// Print renders an already-shaped payload. Payloads are normalized through a
// JSON round trip so the table/plain/md printers only ever see generic maps.
func Print(payload any, format string, quiet bool) error {
	normalized, err := normalize(payload)
	if err != nil {
		return err
	}

	if quiet {
		format = "quiet"
	}
	format = strings.TrimSpace(strings.ToLower(format))
	if format == "" {
		format = DefaultFormat()
	}

	switch format {
	case "json":
		return printJSON(normalized)
	case "table":
		return printTable(normalized)
	case "plain":
		return printPlain(normalized)
	case "md":
		return printMarkdown(normalized)
	case "quiet":
		return printQuiet(normalized)
	default:
		return errors.New("invalid --format value")
	}
}

func normalize(payload any) (map[string]any, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printTable(payload map[string]any) error {
	switch {
	case hasKey(payload, "projects"):
		fmt.Println("ID\tTITLE\tCATEGORY\tLIKES\tCOMMENTS")
		for _, row := range toObjectSlice(payload["projects"]) {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
				str(row["id"]), str(row["title"]), str(row["category"]),
				str(row["likesCount"]), str(row["commentsCount"]))
		}
	case hasKey(payload, "discussions"):
		fmt.Println("ID\tTITLE\tCATEGORY\tAUTHOR\tREPLIES\tLIKES\tVIEWS")
		for _, row := range toObjectSlice(payload["discussions"]) {
			title := str(row["title"])
			if b, ok := row["isPinned"].(bool); ok && b {
				title = "[pinned] " + title
			}
			if b, ok := row["isClosed"].(bool); ok && b {
				title = "[closed] " + title
			}
			fmt.Printf("%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				str(row["id"]), title, str(row["category"]), str(row["authorName"]),
				str(row["repliesCount"]), str(row["likesCount"]), str(row["viewsCount"]))
		}
	case hasKey(payload, "replies"):
		fmt.Println("ID\tAUTHOR\tLIKES\tCONTENT")
		for _, row := range toObjectSlice(payload["replies"]) {
			fmt.Printf("%s\t%s\t%s\t%s\n",
				str(row["id"]), str(row["authorName"]), str(row["likesCount"]), str(row["content"]))
		}
	case hasKey(payload, "comments"):
		fmt.Println("ID\tAUTHOR\tCREATED\tCONTENT")
		for _, row := range toObjectSlice(payload["comments"]) {
			fmt.Printf("%s\t%s\t%s\t%s\n",
				str(row["id"]), str(row["authorName"]), str(row["createdAt"]), str(row["content"]))
		}
	default:
		return printJSON(payload)
	}
	return nil
}

func printPlain(payload map[string]any) error {
	switch {
	case hasKey(payload, "projects"):
		for _, row := range toObjectSlice(payload["projects"]) {
			fmt.Printf("%s %s (%s)\n", str(row["id"]), str(row["title"]), str(row["category"]))
		}
	case hasKey(payload, "discussions"):
		for _, row := range toObjectSlice(payload["discussions"]) {
			fmt.Printf("%s %s by %s\n", str(row["id"]), str(row["title"]), str(row["authorName"]))
		}
	case hasKey(payload, "replies"):
		for _, row := range toObjectSlice(payload["replies"]) {
			fmt.Printf("%s %s: %s\n", str(row["id"]), str(row["authorName"]), str(row["content"]))
		}
	case hasKey(payload, "comments"):
		for _, row := range toObjectSlice(payload["comments"]) {
			fmt.Printf("%s %s: %s\n", str(row["id"]), str(row["authorName"]), str(row["content"]))
		}
	case hasKey(payload, "title"):
		fmt.Printf("%s %s\n", str(payload["id"]), str(payload["title"]))
	default:
		return printJSON(payload)
	}
	return nil
}

func printMarkdown(payload map[string]any) error {
	switch {
	case hasKey(payload, "projects"):
		for _, row := range toObjectSlice(payload["projects"]) {
			fmt.Printf("- `%s` **%s** (%s) ♥%s\n",
				str(row["id"]), str(row["title"]), str(row["category"]), str(row["likesCount"]))
		}
	case hasKey(payload, "discussions"):
		for _, row := range toObjectSlice(payload["discussions"]) {
			fmt.Printf("- `%s` **%s** by %s (%s replies)\n",
				str(row["id"]), str(row["title"]), str(row["authorName"]), str(row["repliesCount"]))
		}
	case hasKey(payload, "replies"):
		for _, row := range toObjectSlice(payload["replies"]) {
			fmt.Printf("- `%s` %s: %s\n", str(row["id"]), str(row["authorName"]), str(row["content"]))
		}
	case hasKey(payload, "comments"):
		for _, row := range toObjectSlice(payload["comments"]) {
			fmt.Printf("- `%s` %s: %s\n", str(row["id"]), str(row["authorName"]), str(row["content"]))
		}
	default:
		return printJSON(payload)
	}
	return nil
}

func printQuiet(payload map[string]any) error {
	switch {
	case hasKey(payload, "projects"):
		for _, row := range toObjectSlice(payload["projects"]) {
			fmt.Println(str(row["id"]))
		}
	case hasKey(payload, "discussions"):
		for _, row := range toObjectSlice(payload["discussions"]) {
			fmt.Println(str(row["id"]))
		}
	case hasKey(payload, "replies"):
		for _, row := range toObjectSlice(payload["replies"]) {
			fmt.Println(str(row["id"]))
		}
	case hasKey(payload, "comments"):
		for _, row := range toObjectSlice(payload["comments"]) {
			fmt.Println(str(row["id"]))
		}
	default:
		if id, ok := payload["id"]; ok {
			fmt.Println(str(id))
			return nil
		}
		return printJSON(payload)
	}
	return nil
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func toObjectSlice(v any) []map[string]any {
	in, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(in))
	for _, item := range in {
		if row, ok := item.(map[string]any); ok {
			out = append(out, row)
		}
	}
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
