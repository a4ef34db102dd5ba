package render

import (
	"slices"
	"strings"

	"github.com/vukan322/profilecard/internal/core"
	"github.com/vukan322/profilecard/internal/locale"
)

type RowID string

const (
	RowRepos               RowID = "repos"
	RowStars               RowID = "stars"
	RowForks               RowID = "forks"
	RowCommits             RowID = "commits"
	RowPRs                 RowID = "prs"
	RowPRsMerged           RowID = "prs_merged"
	RowReviews             RowID = "reviews"
	RowIssues              RowID = "issues"
	RowIssuesClosed        RowID = "issues_closed"
	RowDiscussionsStarted  RowID = "discussions_started"
	RowDiscussionsAnswered RowID = "discussions_answered"
	RowContributed         RowID = "contributed"
)

// Row is one metric line of the card.
type Row struct {
	ID     RowID
	Label  string
	Value  int
	Icon   string
	Hidden bool
}

type rowSpec struct {
	id            RowID
	defaultHidden bool
	icon          string
	label         func(locale.Locale) string
	value         func(core.Snapshot) int
}

// rowSpecs is in display order.
var rowSpecs = []rowSpec{
	{RowRepos, false, iconRepository, func(l locale.Locale) string { return l.TotalReposText }, func(s core.Snapshot) int { return s.PublicRepos }},
	{RowStars, false, iconStar, func(l locale.Locale) string { return l.StarsCountText }, func(s core.Snapshot) int { return s.TotalStars }},
	{RowForks, false, iconFork, func(l locale.Locale) string { return l.ForksCountText }, func(s core.Snapshot) int { return s.TotalForks }},
	{RowCommits, false, iconCommit, func(l locale.Locale) string { return l.CommitsCountText }, func(s core.Snapshot) int { return s.TotalCommits }},
	{RowPRs, false, iconPullRequest, func(l locale.Locale) string { return l.TotalPRText }, func(s core.Snapshot) int { return s.TotalPRs }},
	{RowPRsMerged, false, iconPullRequestMerged, func(l locale.Locale) string { return l.TotalPRMergedText }, func(s core.Snapshot) int { return s.TotalPRsMerged }},
	{RowReviews, true, iconReview, func(l locale.Locale) string { return l.TotalPRReviewedText }, func(s core.Snapshot) int { return s.TotalReviews }},
	{RowIssues, false, iconIssue, func(l locale.Locale) string { return l.TotalIssuesText }, func(s core.Snapshot) int { return s.TotalIssues }},
	{RowIssuesClosed, true, iconIssueClosed, func(l locale.Locale) string { return l.TotalIssuesClosedText }, func(s core.Snapshot) int { return s.TotalClosedIssues }},
	{RowDiscussionsStarted, true, iconDiscussionStarted, func(l locale.Locale) string { return l.TotalDiscussionStartedText }, func(s core.Snapshot) int { return s.TotalDiscussionStarted }},
	{RowDiscussionsAnswered, true, iconDiscussionAnswered, func(l locale.Locale) string { return l.TotalDiscussionAnsweredText }, func(s core.Snapshot) int { return s.TotalDiscussionAnswered }},
	{RowContributed, false, iconContributedTo, func(l locale.Locale) string { return l.ContributedToText }, func(s core.Snapshot) int { return s.TotalContributedTo }},
}

// RowIDs returns every row id in display order.
func RowIDs() []RowID {
	ids := make([]RowID, len(rowSpecs))
	for i, spec := range rowSpecs {
		ids[i] = spec.id
	}
	return ids
}

// HiddenByDefault reports whether id is only shown when named in the show list.
func HiddenByDefault(id RowID) bool {
	for _, spec := range rowSpecs {
		if spec.id == id {
			return spec.defaultHidden
		}
	}
	return false
}

// ItemList is a parsed comma separated list of row ids.
type ItemList []string

func ParseItemList(raw string) ItemList {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (l ItemList) Contains(id RowID) bool {
	return slices.Contains(l, string(id))
}

// IsHidden applies the visibility rule for a single row: rows hidden by
// default need the show list, the others are hidden by the hide list.
func IsHidden(id RowID, defaultHidden bool, hide, show ItemList) bool {
	if defaultHidden {
		return !show.Contains(id)
	}
	return hide.Contains(id)
}

// BuildRows returns every candidate row with its visibility computed.
func BuildRows(snap core.Snapshot, loc locale.Locale, hide, show ItemList) []Row {
	rows := make([]Row, len(rowSpecs))
	for i, spec := range rowSpecs {
		rows[i] = Row{
			ID:     spec.id,
			Label:  spec.label(loc),
			Value:  spec.value(snap),
			Icon:   spec.icon,
			Hidden: IsHidden(spec.id, spec.defaultHidden, hide, show),
		}
	}
	return rows
}

// VisibleRows keeps the rows that are not hidden, in order.
func VisibleRows(rows []Row) []Row {
	visible := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !r.Hidden {
			visible = append(visible, r)
		}
	}
	return visible
}
