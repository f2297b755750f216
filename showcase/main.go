package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"showcase/internal/cli/client"
	"showcase/internal/cli/config"
	"showcase/internal/cli/identity"
	"showcase/internal/cli/output"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return usage()
	}
	switch args[0] {
	case "connect":
		return cmdConnect(args[1:])
	case "disconnect":
		return cmdDisconnect()
	case "status":
		return cmdStatus()
	case "projects":
		return cmdProjects(args[1:])
	case "community":
		return cmdCommunity(args[1:])
	case "browse":
		return cmdBrowse(args[1:])
	default:
		return usage()
	}
}

func cmdConnect(args []string) error {
	fs := flag.NewFlagSet("connect", flag.ContinueOnError)
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 1 {
		return errors.New("usage: showcase connect <url>")
	}
	rawURL := strings.TrimSpace(positionals[0])
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	cl := client.New(rawURL, "")
	if _, err := cl.Stats(); err != nil {
		return fmt.Errorf("validate server: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.SetServer(rawURL)
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("connected to %s\n", rawURL)
	return nil
}

func cmdDisconnect() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.ServerURL == "" {
		fmt.Println("no active connection")
		return nil
	}
	cfg.ClearServer()
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println("disconnected")
	return nil
}

func cmdStatus() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.ServerURL == "" {
		return errors.New("not connected. run: showcase connect <url>")
	}
	userID, err := identity.UserIdentifier()
	if err != nil {
		return err
	}
	cl := client.New(cfg.ServerURL, userID)
	stats, err := cl.Stats()
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"server":       cfg.ServerURL,
		"connected_at": cfg.ConnectedAt,
		"user":         userID,
		"stats":        stats,
	})
}

func cmdProjects(args []string) error {
	if len(args) == 0 {
		return cmdProjectsList(nil)
	}
	switch args[0] {
	case "list":
		return cmdProjectsList(args[1:])
	case "show":
		return cmdProjectsShow(args[1:])
	case "like":
		return cmdProjectsLike(args[1:])
	case "comments":
		return cmdProjectsComments(args[1:])
	case "comment":
		return cmdProjectsComment(args[1:])
	case "insight":
		return cmdProjectsInsight(args[1:])
	default:
		return errors.New("usage: showcase projects <list|show|like|comments|comment|insight>")
	}
}

func cmdProjectsList(args []string) error {
	fs := flag.NewFlagSet("projects list", flag.ContinueOnError)
	category := fs.String("category", "", "Filter by category")
	format := fs.String("format", "", "Output format: json|table|plain|md|quiet")
	quiet := fs.Bool("quiet", false, "IDs only")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errors.New("usage: showcase projects list [--category c] [--format f] [--quiet]")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	projects, err := cl.ListProjects(*category)
	if err != nil {
		return err
	}
	return output.Print(map[string]any{"projects": projects}, *format, *quiet)
}

func cmdProjectsShow(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: showcase projects show <project-id>")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	project, err := cl.GetProject(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	return printJSON(project)
}

func cmdProjectsLike(args []string) error {
	fs := flag.NewFlagSet("projects like", flag.ContinueOnError)
	unlike := fs.Bool("unlike", false, "Remove a previously recorded like")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 1 {
		return errors.New("usage: showcase projects like <project-id> [--unlike]")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	result, err := cl.ToggleLike(strings.TrimSpace(positionals[0]), !*unlike)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func cmdProjectsComments(args []string) error {
	fs := flag.NewFlagSet("projects comments", flag.ContinueOnError)
	format := fs.String("format", "", "Output format: json|table|plain|md|quiet")
	quiet := fs.Bool("quiet", false, "IDs only")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 1 {
		return errors.New("usage: showcase projects comments <project-id> [--format f] [--quiet]")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	comments, err := cl.ListComments(strings.TrimSpace(positionals[0]))
	if err != nil {
		return err
	}
	return output.Print(map[string]any{"comments": comments}, *format, *quiet)
}

func cmdProjectsComment(args []string) error {
	fs := flag.NewFlagSet("projects comment", flag.ContinueOnError)
	author := fs.String("author", "", "Author nickname (defaults to saved nickname)")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 2 {
		return errors.New("usage: showcase projects comment <project-id> <content> [--author name]")
	}
	content := strings.TrimSpace(positionals[1])
	if content == "" {
		return errors.New("content must not be empty")
	}
	name, err := resolveAuthorName(*author)
	if err != nil {
		return err
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	comment, err := cl.CreateComment(strings.TrimSpace(positionals[0]), content, name)
	if err != nil {
		return err
	}
	return printJSON(comment)
}

func cmdProjectsInsight(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: showcase projects insight <project-id>")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	project, err := cl.GetProject(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	insight, err := cl.ProjectInsight(project.Title, project.BackgroundStory, project.ShortDescription)
	if err != nil {
		return err
	}
	fmt.Println(insight)
	return nil
}

func cmdCommunity(args []string) error {
	if len(args) == 0 {
		return cmdCommunityList(nil)
	}
	switch args[0] {
	case "list":
		return cmdCommunityList(args[1:])
	case "read":
		return cmdCommunityRead(args[1:])
	case "post":
		return cmdCommunityPost(args[1:])
	case "reply":
		return cmdCommunityReply(args[1:])
	case "like":
		return cmdCommunityLike(args[1:])
	case "like-reply":
		return cmdCommunityLikeReply(args[1:])
	case "stats":
		return cmdCommunityStats(args[1:])
	default:
		return errors.New("usage: showcase community <list|read|post|reply|like|like-reply|stats>")
	}
}

func cmdCommunityList(args []string) error {
	fs := flag.NewFlagSet("community list", flag.ContinueOnError)
	category := fs.String("category", "", "Filter by category: general|tech|idea|help")
	sort := fs.String("sort", "", "Sort by latest|popular|active")
	limit := fs.Int("limit", 0, "Page size")
	offset := fs.Int("offset", 0, "Page offset")
	format := fs.String("format", "", "Output format: json|table|plain|md|quiet")
	quiet := fs.Bool("quiet", false, "IDs only")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errors.New("usage: showcase community list [--category c] [--sort s] [--limit n] [--offset n]")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	discussions, err := cl.ListDiscussions(client.DiscussionListOptions{
		Category: *category,
		Sort:     *sort,
		Limit:    *limit,
		Offset:   *offset,
	})
	if err != nil {
		return err
	}
	if len(discussions) == 0 && !*quiet {
		fmt.Println("暂无讨论")
		return nil
	}
	return output.Print(map[string]any{"discussions": discussions}, *format, *quiet)
}

func cmdCommunityRead(args []string) error {
	fs := flag.NewFlagSet("community read", flag.ContinueOnError)
	format := fs.String("format", "", "Output format: json|table|plain|md|quiet")
	quiet := fs.Bool("quiet", false, "IDs only")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 1 {
		return errors.New("usage: showcase community read <discussion-id>")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	id := strings.TrimSpace(positionals[0])
	discussion, err := cl.GetDiscussion(id)
	if err != nil {
		return err
	}
	replies, err := cl.ListReplies(id)
	if err != nil {
		return err
	}
	if *format != "" || *quiet {
		return output.Print(map[string]any{"replies": replies}, *format, *quiet)
	}
	return printJSON(map[string]any{
		"discussion": discussion,
		"replies":    replies,
	})
}

func cmdCommunityPost(args []string) error {
	fs := flag.NewFlagSet("community post", flag.ContinueOnError)
	category := fs.String("category", "general", "Category: general|tech|idea|help")
	author := fs.String("author", "", "Author nickname (defaults to saved nickname)")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 2 {
		return errors.New("usage: showcase community post <title> <content> [--category c] [--author name]")
	}
	title := strings.TrimSpace(positionals[0])
	content := strings.TrimSpace(positionals[1])
	if title == "" || content == "" {
		return errors.New("title and content must not be empty")
	}
	name, err := resolveAuthorName(*author)
	if err != nil {
		return err
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	discussion, err := cl.CreateDiscussion(title, content, *category, name)
	if err != nil {
		return err
	}
	return printJSON(discussion)
}

func cmdCommunityReply(args []string) error {
	fs := flag.NewFlagSet("community reply", flag.ContinueOnError)
	author := fs.String("author", "", "Author nickname (defaults to saved nickname)")
	replyTo := fs.String("reply-to", "", "Reply ID being answered")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 2 {
		return errors.New("usage: showcase community reply <discussion-id> <content> [--reply-to id] [--author name]")
	}
	content := strings.TrimSpace(positionals[1])
	if content == "" {
		return errors.New("content must not be empty")
	}
	name, err := resolveAuthorName(*author)
	if err != nil {
		return err
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var replyToID *string
	if trimmed := strings.TrimSpace(*replyTo); trimmed != "" {
		replyToID = &trimmed
	}
	reply, err := cl.CreateReply(strings.TrimSpace(positionals[0]), content, name, replyToID)
	if err != nil {
		return err
	}
	return printJSON(reply)
}

func cmdCommunityLike(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: showcase community like <discussion-id>")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	count, err := cl.LikeDiscussion(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"likesCount": count})
}

func cmdCommunityLikeReply(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: showcase community like-reply <discussion-id> <reply-id>")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	count, err := cl.LikeReply(strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"likesCount": count})
}

func cmdCommunityStats(args []string) error {
	if len(args) != 0 {
		return errors.New("usage: showcase community stats")
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	stats, err := cl.Stats()
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func resolveAuthorName(flagValue string) (string, error) {
	name := strings.TrimSpace(flagValue)
	if name == "" {
		name = identity.AuthorName()
	}
	if name == "" {
		name = "匿名用户"
	}
	if err := identity.SaveAuthorName(name); err != nil {
		return "", err
	}
	return name, nil
}

func defaultClient() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		return nil, errors.New("not connected. run: showcase connect <url>")
	}
	userID, err := identity.UserIdentifier()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.ServerURL, userID), nil
}

func parseInterspersedFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	positionals := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := strings.TrimSpace(args[i])
		if arg == "" {
			continue
		}
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}

		trimmed := strings.TrimLeft(arg, "-")
		if trimmed == "" {
			positionals = append(positionals, arg)
			continue
		}
		name := trimmed
		value := ""
		hasValue := false
		if idx := strings.Index(trimmed, "="); idx >= 0 {
			name = trimmed[:idx]
			value = trimmed[idx+1:]
			hasValue = true
		}

		f := fs.Lookup(name)
		if f == nil {
			return nil, fmt.Errorf("flag provided but not defined: -%s", name)
		}
		isBool := false
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			isBool = true
		}

		if !hasValue {
			if isBool {
				value = "true"
			} else {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("flag needs an argument: -%s", name)
				}
				i++
				value = args[i]
			}
		}

		if err := fs.Set(name, value); err != nil {
			return nil, err
		}
	}
	return positionals, nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func usage() error {
	return errors.New(`usage:
  showcase connect <url>
  showcase disconnect
  showcase status
  showcase browse
  showcase projects list [--category c] [--format f] [--quiet]
  showcase projects show <project-id>
  showcase projects like <project-id> [--unlike]
  showcase projects comments <project-id> [--format f] [--quiet]
  showcase projects comment <project-id> <content> [--author name]
  showcase projects insight <project-id>
  showcase community list [--category c] [--sort latest|popular|active] [--limit n] [--offset n]
  showcase community read <discussion-id>
  showcase community post <title> <content> [--category c] [--author name]
  showcase community reply <discussion-id> <content> [--reply-to id] [--author name]
  showcase community like <discussion-id>
  showcase community like-reply <discussion-id> <reply-id>
  showcase community stats`)
}
