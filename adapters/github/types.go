package github

type SearchIssuesParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
	Sort  string `json:"sort,omitempty"`
	Order string `json:"order,omitempty"`
}

type RepoParams struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

type ListIssuesParams struct {
	Owner  string   `json:"owner"`
	Repo   string   `json:"repo"`
	State  string   `json:"state"`
	Labels []string `json:"labels,omitempty"`
	Limit  int      `json:"limit"`
}

type CreateIssueParams struct {
	Owner     string   `json:"owner"`
	Repo      string   `json:"repo"`
	Title     string   `json:"title"`
	Body      string   `json:"body,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
}

type ListPullRequestsParams struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	State string `json:"state"`
	Limit int    `json:"limit"`
}

// Issue is the tool-facing view of a GitHub issue.
type Issue struct {
	Number        int      `json:"number"`
	Title         string   `json:"title"`
	State         string   `json:"state"`
	URL           string   `json:"url"`
	Author        string   `json:"author"`
	Labels        []string `json:"labels"`
	Comments      int      `json:"comments"`
	Body          *string  `json:"body,omitempty"`
	IsPullRequest bool     `json:"isPullRequest"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

type SearchIssuesResult struct {
	TotalCount        int     `json:"total_count"`
	IncompleteResults bool    `json:"incomplete_results"`
	Items             []Issue `json:"items"`
}

type Repository struct {
	FullName      string  `json:"fullName"`
	Description   *string `json:"description,omitempty"`
	URL           string  `json:"url"`
	Private       bool    `json:"private"`
	DefaultBranch string  `json:"defaultBranch"`
	Language      *string `json:"language,omitempty"`
	Stars         int     `json:"stars"`
	Forks         int     `json:"forks"`
	OpenIssues    int     `json:"openIssues"`
	UpdatedAt     string  `json:"updatedAt"`
}

type PullRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	Head      string `json:"head"`
	Base      string `json:"base"`
	Draft     bool   `json:"draft"`
	CreatedAt string `json:"createdAt"`
}

// wire shapes returned by the REST API

type apiUser struct {
	Login string `json:"login"`
}

type apiIssue struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	State       string    `json:"state"`
	HTMLURL     string    `json:"html_url"`
	Body        *string   `json:"body"`
	User        *apiUser  `json:"user"`
	Comments    int       `json:"comments"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	PullRequest *struct{} `json:"pull_request"`
	Labels      []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

type apiSearchIssues struct {
	TotalCount        int        `json:"total_count"`
	IncompleteResults bool       `json:"incomplete_results"`
	Items             []apiIssue `json:"items"`
}

type apiRepository struct {
	FullName        string  `json:"full_name"`
	Description     *string `json:"description"`
	HTMLURL         string  `json:"html_url"`
	Private         bool    `json:"private"`
	DefaultBranch   string  `json:"default_branch"`
	Language        *string `json:"language"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	OpenIssuesCount int     `json:"open_issues_count"`
	UpdatedAt       string  `json:"updated_at"`
}

type apiRef struct {
	Ref string `json:"ref"`
}

type apiPullRequest struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	HTMLURL   string   `json:"html_url"`
	User      *apiUser `json:"user"`
	Head      apiRef   `json:"head"`
	Base      apiRef   `json:"base"`
	Draft     bool     `json:"draft"`
	CreatedAt string   `json:"created_at"`
}

func login(u *apiUser) string {
	if u == nil {
		return ""
	}
	return u.Login
}

func toIssue(in apiIssue) Issue {
	labels := make([]string, 0, len(in.Labels))
	for _, l := range in.Labels {
		labels = append(labels, l.Name)
	}
	return Issue{
		Number:        in.Number,
		Title:         in.Title,
		State:         in.State,
		URL:           in.HTMLURL,
		Author:        login(in.User),
		Labels:        labels,
		Comments:      in.Comments,
		Body:          in.Body,
		IsPullRequest: in.PullRequest != nil,
		CreatedAt:     in.CreatedAt,
		UpdatedAt:     in.UpdatedAt,
	}
}

func toRepository(in apiRepository) Repository {
	return Repository{
		FullName:      in.FullName,
		Description:   in.Description,
		URL:           in.HTMLURL,
		Private:       in.Private,
		DefaultBranch: in.DefaultBranch,
		Language:      in.Language,
		Stars:         in.StargazersCount,
		Forks:         in.ForksCount,
		OpenIssues:    in.OpenIssuesCount,
		UpdatedAt:     in.UpdatedAt,
	}
}

func toPullRequest(in apiPullRequest) PullRequest {
	return PullRequest{
		Number:    in.Number,
		Title:     in.Title,
		State:     in.State,
		URL:       in.HTMLURL,
		Author:    login(in.User),
		Head:      in.Head.Ref,
		Base:      in.Base.Ref,
		Draft:     in.Draft,
		CreatedAt: in.CreatedAt,
	}
}
