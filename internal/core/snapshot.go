package core

// Snapshot is the profile and activity data of one user at render time.
// Picture holds the raw avatar bytes as downloaded; JSON encodes it as base64.
// Avatar is the resized base64 JPEG embedded into the card.
type Snapshot struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Picture  []byte `json:"picture"`
	Avatar   string `json:"-"`

	Followers int `json:"followers"`
	Following int `json:"following"`

	PublicRepos             int `json:"public_repos"`
	TotalStars              int `json:"total_stars"`
	TotalForks              int `json:"total_forks"`
	TotalCommits            int `json:"total_commits"`
	TotalPRs                int `json:"total_prs"`
	TotalPRsMerged          int `json:"total_prs_merged"`
	TotalReviews            int `json:"total_review"`
	TotalIssues             int `json:"total_issues"`
	TotalClosedIssues       int `json:"total_closed_issues"`
	TotalDiscussionStarted  int `json:"total_discussion_started"`
	TotalDiscussionAnswered int `json:"total_discussion_answered"`
	TotalContributedTo      int `json:"total_contributed_to"`
}

func (s Snapshot) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Username
}
