package services

import (
	"context"
	"sort"

	"github.com/vivemedellin/vivemedellin/models"
)

const (
	topGroupsLimit      = 5
	recentActivityLimit = 8
)

// GroupStat is the size of one group for the dashboard.
type GroupStat struct {
	GroupID     string `json:"groupId"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	IsPublic    bool   `json:"isPublic"`
	MemberCount int    `json:"memberCount"`
	PostCount   int    `json:"postCount"`
}

// ActivityPost is a post together with the group it belongs to.
type ActivityPost struct {
	models.GroupPost
	GroupName     string `json:"groupName"`
	GroupSlug     string `json:"groupSlug"`
	GroupIsPublic bool   `json:"groupIsPublic"`
}

// ActivityMember is a join event together with its group.
type ActivityMember struct {
	models.GroupMember
	GroupID       string `json:"groupId"`
	GroupName     string `json:"groupName"`
	GroupSlug     string `json:"groupSlug"`
	GroupIsPublic bool   `json:"groupIsPublic"`
}

// ActivitySummary aggregates activity across the groups a user can see.
type ActivitySummary struct {
	Groups        []GroupStat      `json:"groups"`
	TopByMembers  []GroupStat      `json:"topByMembers"`
	TopByPosts    []GroupStat      `json:"topByPosts"`
	RecentPosts   []ActivityPost   `json:"recentPosts"`
	RecentMembers []ActivityMember `json:"recentMembers"`
}

// GetGroupActivitySummary builds the dashboard for userID. It never writes.
func (s *Service) GetGroupActivitySummary(ctx context.Context, userID string) (ActivitySummary, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return ActivitySummary{}, err
	}
	defer unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return ActivitySummary{}, err
	}

	summary := ActivitySummary{
		Groups:        []GroupStat{},
		RecentPosts:   []ActivityPost{},
		RecentMembers: []ActivityMember{},
	}
	for i := range groups {
		g := &groups[i]
		if !g.CanAccess(userID) {
			continue
		}
		summary.Groups = append(summary.Groups, GroupStat{
			GroupID:     g.ID,
			Name:        g.Name,
			Slug:        g.Slug,
			IsPublic:    g.IsPublic,
			MemberCount: len(g.Members),
			PostCount:   len(g.Posts),
		})
		for _, p := range g.Posts {
			p.Comments = sortComments(p.Comments)
			summary.RecentPosts = append(summary.RecentPosts, ActivityPost{
				GroupPost:     p,
				GroupName:     g.Name,
				GroupSlug:     g.Slug,
				GroupIsPublic: g.IsPublic,
			})
		}
		for _, m := range g.Members {
			summary.RecentMembers = append(summary.RecentMembers, ActivityMember{
				GroupMember:   m,
				GroupID:       g.ID,
				GroupName:     g.Name,
				GroupSlug:     g.Slug,
				GroupIsPublic: g.IsPublic,
			})
		}
	}

	summary.TopByMembers = topGroups(summary.Groups, func(a, b GroupStat) bool { return a.MemberCount > b.MemberCount })
	summary.TopByPosts = topGroups(summary.Groups, func(a, b GroupStat) bool { return a.PostCount > b.PostCount })

	sort.SliceStable(summary.RecentPosts, func(a, b int) bool {
		return summary.RecentPosts[a].CreatedAt.After(summary.RecentPosts[b].CreatedAt)
	})
	if len(summary.RecentPosts) > recentActivityLimit {
		summary.RecentPosts = summary.RecentPosts[:recentActivityLimit]
	}
	sort.SliceStable(summary.RecentMembers, func(a, b int) bool {
		return summary.RecentMembers[a].JoinedAt.After(summary.RecentMembers[b].JoinedAt)
	})
	if len(summary.RecentMembers) > recentActivityLimit {
		summary.RecentMembers = summary.RecentMembers[:recentActivityLimit]
	}
	return summary, nil
}

func topGroups(stats []GroupStat, less func(a, b GroupStat) bool) []GroupStat {
	out := make([]GroupStat, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(a, b int) bool { return less(out[a], out[b]) })
	if len(out) > topGroupsLimit {
		out = out[:topGroupsLimit]
	}
	return out
}
