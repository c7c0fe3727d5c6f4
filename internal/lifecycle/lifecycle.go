// Package lifecycle decides which admin actions a campaign accepts and which
// tab it is listed under. Everything here is a pure function of the stored
// campaign fields; nothing derived is ever persisted.
package lifecycle

import (
	"errors"
	"strings"
)

// Status values stored in campaigns.status. An empty value means live.
const (
	StatusLive        = "live"
	StatusGoalReached = "goal_reached"
	StatusKickstarter = "kickstarter"
)

// Tab is where a campaign is listed
type Tab string

const (
	TabLive        Tab = "live"
	TabGoalReached Tab = "goal_reached"
	TabKickstarter Tab = "kickstarter"
	TabLaunched    Tab = "launched"
	TabArchived    Tab = "archived"
)

// Tabs in display order
var Tabs = []Tab{TabLive, TabGoalReached, TabKickstarter, TabLaunched, TabArchived}

// ParseTab validates a tab name from a query string
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Action is an admin-initiated change
type Action string

const (
	ActionMarkGoalReached   Action = "mark_goal_reached"
	ActionMoveToKickstarter Action = "move_to_kickstarter"
	ActionMoveBackToLive    Action = "move_back_to_live"
	ActionSetLaunchURLs     Action = "set_launch_urls"
	ActionArchive           Action = "archive"
	ActionRestore           Action = "restore"
	ActionDelete            Action = "delete"
)

var (
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrGoalNotReached       = errors.New("reservation goal not reached")
	ErrLaunchURLRequired    = errors.New("at least one launch url is required")
)

// Snapshot holds the campaign fields the lifecycle depends on
type Snapshot struct {
	Status              string
	IsArchived          bool
	CurrentReservations int64
	ReservationGoal     int64
	KickstarterURL      string
	AmazonURL           string
	WebsiteURL          string
}

// Params carries the optional inputs of an action
type Params struct {
	KickstarterURL string
	AmazonURL      string
	WebsiteURL     string
}

// TabOf derives the listing tab: archived first, then launched (a store or
// website link exists), then the stored status.
func TabOf(s Snapshot) Tab {
	switch {
	case s.IsArchived:
		return TabArchived
	case strings.TrimSpace(s.AmazonURL) != "" || strings.TrimSpace(s.WebsiteURL) != "":
		return TabLaunched
	case s.Status == StatusKickstarter:
		return TabKickstarter
	case s.Status == StatusGoalReached:
		return TabGoalReached
	default:
		return TabLive
	}
}

// GoalReached reports whether reservations meet the goal
func GoalReached(s Snapshot) bool {
	return s.CurrentReservations >= s.ReservationGoal
}

// AvailableActions lists the actions offered for the campaign's current tab
func AvailableActions(s Snapshot) []Action {
	switch TabOf(s) {
	case TabArchived:
		return []Action{ActionRestore, ActionDelete}
	case TabLaunched:
		return []Action{ActionSetLaunchURLs, ActionArchive, ActionDelete}
	case TabKickstarter:
		return []Action{ActionMoveToKickstarter, ActionMoveBackToLive, ActionSetLaunchURLs, ActionArchive, ActionDelete}
	case TabGoalReached:
		return []Action{ActionMoveToKickstarter, ActionMoveBackToLive, ActionSetLaunchURLs, ActionArchive, ActionDelete}
	default:
		actions := make([]Action, 0, 4)
		if GoalReached(s) {
			actions = append(actions, ActionMarkGoalReached)
		}
		return append(actions, ActionMoveToKickstarter, ActionArchive, ActionDelete)
	}
}

// Allowed reports whether action is currently offered
func Allowed(s Snapshot, action Action) bool {
	for _, a := range AvailableActions(s) {
		if a == action {
			return true
		}
	}
	return false
}

// Apply returns the snapshot after action. The caller persists the result
// before showing it. ActionDelete is accepted from every state and returns s
// unchanged; removing the row is the caller's job.
func Apply(s Snapshot, action Action, p Params) (Snapshot, error) {
	if !Allowed(s, action) {
		if action == ActionMarkGoalReached && TabOf(s) == TabLive {
			return s, ErrGoalNotReached
		}
		return s, ErrTransitionNotAllowed
	}

	next := s
	switch action {
	case ActionMarkGoalReached:
		next.Status = StatusGoalReached
	case ActionMoveToKickstarter:
		next.Status = StatusKickstarter
		if u := strings.TrimSpace(p.KickstarterURL); u != "" {
			next.KickstarterURL = u
		}
	case ActionMoveBackToLive:
		next.Status = StatusLive
	case ActionSetLaunchURLs:
		amazon := strings.TrimSpace(p.AmazonURL)
		website := strings.TrimSpace(p.WebsiteURL)
		if amazon == "" && website == "" {
			return s, ErrLaunchURLRequired
		}
		if amazon != "" {
			next.AmazonURL = amazon
		}
		if website != "" {
			next.WebsiteURL = website
		}
	case ActionArchive:
		next.IsArchived = true
	case ActionRestore:
		// 복원은 항상 live 로. 런칭 링크가 남으면 launched 로 분류되므로 비운다
		next.IsArchived = false
		next.Status = StatusLive
		next.AmazonURL = ""
		next.WebsiteURL = ""
	case ActionDelete:
	default:
		return s, ErrTransitionNotAllowed
	}
	return next, nil
}
