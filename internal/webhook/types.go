package webhook

// GitHub webhook event types, trimmed to the fields the handler reads.

// PullRequestReviewEvent is the pull_request_review event payload.
type PullRequestReviewEvent struct {
	Action      string      `json:"action"`
	Review      Review      `json:"review"`
	PullRequest PullRequest `json:"pull_request"`
	Repository  Repository  `json:"repository"`
	Sender      User        `json:"sender"`
}

type Review struct {
	ID    int64  `json:"id"`
	State string `json:"state"`
	Body  string `json:"body"`
	User  User   `json:"user"`
}

type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Head   struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
}

type Repository struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Name          string `json:"name"`
	Owner         User   `json:"owner"`
}

type User struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}
