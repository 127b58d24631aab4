package model

import "strings"

type ProjectStatus string

const (
	ProjectYetToStart ProjectStatus = "yet_to_start"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectDone       ProjectStatus = "done"
	ProjectDismissed  ProjectStatus = "dismissed"
)

// ProjectStatuses is the closed set of project states.
var ProjectStatuses = []ProjectStatus{ProjectYetToStart, ProjectInProgress, ProjectDone, ProjectDismissed}

type TaskStatus string

const (
	TaskInProgress TaskStatus = "in_progress"
	TaskDelegated  TaskStatus = "delegated"
	TaskUrgent     TaskStatus = "urgent"
	TaskDone       TaskStatus = "done"
)

// TaskStatuses is the closed set of task states.
var TaskStatuses = []TaskStatus{TaskInProgress, TaskDelegated, TaskUrgent, TaskDone}

// normalizeStatus folds "In Progress", "in-progress" and "in_progress" together.
func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return strings.ReplaceAll(s, "-", "_")
}

// ParseProjectStatus returns the canonical status and whether s names one.
func ParseProjectStatus(s string) (ProjectStatus, bool) {
	n := ProjectStatus(normalizeStatus(s))
	for _, st := range ProjectStatuses {
		if st == n {
			return st, true
		}
	}
	return "", false
}

// ParseTaskStatus returns the canonical status and whether s names one.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	n := TaskStatus(normalizeStatus(s))
	for _, st := range TaskStatuses {
		if st == n {
			return st, true
		}
	}
	return "", false
}
