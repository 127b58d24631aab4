package ai

import (
	"fmt"
	"strings"

	"echoboard/internal/model"
)

// DescriptionPrompt asks for a task description. project may be nil.
func DescriptionPrompt(title string, project *model.Project) string {
	var b strings.Builder
	b.WriteString("You help a small team write clear task descriptions.\n")
	b.WriteString("Write a concise description (at most 4 sentences, plain text, no markdown) for the task below. ")
	b.WriteString("State the expected outcome and, if useful, a first step.\n\n")
	fmt.Fprintf(&b, "Task title: %s\n", title)
	if project != nil {
		fmt.Fprintf(&b, "Project: %s\n", project.Title)
		if project.Description != nil && *project.Description != "" {
			fmt.Fprintf(&b, "Project description: %s\n", *project.Description)
		}
		fmt.Fprintf(&b, "Project due date: %s\n", project.DueDate.Format(model.DateLayout))
	}
	return b.String()
}

// StandupPrompt asks for a daily standup over the user's tasks.
// projectTitles maps project ids to titles for context.
func StandupPrompt(userName string, tasks []model.Task, projectTitles map[string]string) string {
	var b strings.Builder
	b.WriteString("Write a short daily standup update in the first person, plain text, with three parts: ")
	b.WriteString("Done, Today, Blockers. Use only the tasks listed; do not invent work.\n\n")
	fmt.Fprintf(&b, "Team member: %s\n", userName)

	if len(tasks) == 0 {
		b.WriteString("Tasks: none. Say there is nothing on the board and suggest picking up work.\n")
		return b.String()
	}

	b.WriteString("Tasks:\n")
	for _, t := range tasks {
		project := projectTitles[t.ProjectID.String()]
		if project == "" {
			project = "unknown project"
		}
		fmt.Fprintf(&b, "- [%s] %s (project: %s)", t.Status, t.Title, project)
		if t.Description != nil && *t.Description != "" {
			fmt.Fprintf(&b, ": %s", *t.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
