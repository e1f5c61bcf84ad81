// adapters/github/tools.go
package github

import "github.com/mwiater/toolbelt/pkg/toolkit"

const (
	ToolSearchIssues     = "searchIssues"
	ToolGetRepository    = "getRepository"
	ToolListIssues       = "listIssues"
	ToolCreateIssue      = "createIssue"
	ToolListPullRequests = "listPullRequests"
)

func repoProps(extra map[string]any) map[string]any {
	props := map[string]any{
		"owner": toolkit.Prop("string", "Repository owner (user or organization)", toolkit.MinLength(1)),
		"repo":  toolkit.Prop("string", "Repository name", toolkit.MinLength(1)),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// Definitions lists the GitHub tools in registration order.
var Definitions = []toolkit.Definition{
	{
		Name:        ToolSearchIssues,
		Description: "Search issues and pull requests across GitHub using the issue search syntax.",
		Parameters: toolkit.Object(map[string]any{
			"query": toolkit.Prop("string", "Search query, e.g. 'repo:owner/name is:open label:bug'", toolkit.MinLength(1)),
			"limit": toolkit.Prop("integer", "Maximum number of results", toolkit.Default(25), toolkit.Minimum(1), toolkit.Maximum(100)),
			"sort":  toolkit.Prop("string", "Sort field", toolkit.Enum("comments", "reactions", "created", "updated")),
			"order": toolkit.Prop("string", "Sort direction", toolkit.Enum("asc", "desc"), toolkit.Default("desc")),
		}, "query"),
	},
	{
		Name:        ToolGetRepository,
		Description: "Get metadata for a single repository.",
		Parameters:  toolkit.Object(repoProps(nil), "owner", "repo"),
	},
	{
		Name:        ToolListIssues,
		Description: "List issues in a repository. Pull requests are excluded.",
		Parameters: toolkit.Object(repoProps(map[string]any{
			"state":  toolkit.Prop("string", "Issue state", toolkit.Enum("open", "closed", "all"), toolkit.Default("open")),
			"labels": toolkit.Prop("array", "Only issues carrying all of these labels", toolkit.Items(toolkit.Prop("string", ""))),
			"limit":  toolkit.Prop("integer", "Maximum number of issues", toolkit.Default(30), toolkit.Minimum(1), toolkit.Maximum(100)),
		}), "owner", "repo"),
	},
	{
		Name:        ToolCreateIssue,
		Description: "Open a new issue in a repository.",
		Parameters: toolkit.Object(repoProps(map[string]any{
			"title":     toolkit.Prop("string", "Issue title", toolkit.MinLength(1)),
			"body":      toolkit.Prop("string", "Issue body in Markdown"),
			"labels":    toolkit.Prop("array", "Labels to apply", toolkit.Items(toolkit.Prop("string", ""))),
			"assignees": toolkit.Prop("array", "Logins to assign", toolkit.Items(toolkit.Prop("string", ""))),
		}), "owner", "repo", "title"),
	},
	{
		Name:        ToolListPullRequests,
		Description: "List pull requests in a repository.",
		Parameters: toolkit.Object(repoProps(map[string]any{
			"state": toolkit.Prop("string", "Pull request state", toolkit.Enum("open", "closed", "all"), toolkit.Default("open")),
			"limit": toolkit.Prop("integer", "Maximum number of pull requests", toolkit.Default(30), toolkit.Minimum(1), toolkit.Maximum(100)),
		}), "owner", "repo"),
	},
}
