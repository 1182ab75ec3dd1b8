package cmd

import (
	"context"
	"strings"

	"github.com/frahmantamala/project-management/internal/task"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := authorize(deps, user.ActionRead, user.ResourceTasks, featureTasks); err != nil {
			return err
		}

		var tasks []task.Task
		var err error
		if flagBool(cmd, "startable") {
			tasks, err = deps.Tasks.Startable()
		} else {
			tasks, err = listTasks(deps, cmd)
		}
		if err != nil {
			return err
		}
		all, err := deps.Tasks.All()
		if err != nil {
			return err
		}
		printTasks(printerFor(cmd.OutOrStdout(), deps), tasks, all)
		return nil
	}),
}

func listTasks(deps *Dependencies, cmd *cobra.Command) ([]task.Task, error) {
	status, err := parseOptionalStatus(flagString(cmd, "status"))
	if err != nil {
		return nil, err
	}
	priority, err := parseOptionalPriority(flagString(cmd, "priority"))
	if err != nil {
		return nil, err
	}
	sort, err := sortOptions(cmd)
	if err != nil {
		return nil, err
	}
	var projectID int64
	if v := flagString(cmd, "project"); v != "" {
		if projectID, err = parseID(v); err != nil {
			return nil, err
		}
	}
	return deps.Tasks.List(task.Filter{
		Search:     flagString(cmd, "search"),
		Status:     status,
		Priority:   priority,
		ProjectID:  projectID,
		Categories: splitList(flagString(cmd, "categories")),
		Sort:       sort,
	})
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := authorize(deps, user.ActionCreate, user.ResourceTasks, featureTasks); err != nil {
			return err
		}
		dto := task.CreateTaskDTO{
			Title:             flagString(cmd, "title"),
			Description:       flagString(cmd, "description"),
			Status:            flagString(cmd, "status"),
			Priority:          flagString(cmd, "priority"),
			DueDate:           flagString(cmd, "due"),
			AssignedTo:        flagString(cmd, "assignee"),
			Categories:        splitList(flagString(cmd, "categories")),
			StartDate:         flagString(cmd, "start"),
			EstimatedDuration: flagInt(cmd, "duration"),
		}
		var err error
		if v := flagString(cmd, "project"); v != "" {
			if dto.ProjectID, err = parseID(v); err != nil {
				return err
			}
		}
		if dto.Dependencies, err = splitIDs(flagString(cmd, "depends-on")); err != nil {
			return err
		}
		t, err := deps.Tasks.Create(dto)
		if err != nil {
			return err
		}
		all, err := deps.Tasks.All()
		if err != nil {
			return err
		}
		printTasks(printerFor(cmd.OutOrStdout(), deps), []task.Task{*t}, all)
		return nil
	}),
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := authorize(deps, user.ActionUpdate, user.ResourceTasks, featureTasks); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		dto := task.UpdateTaskDTO{
			Title:       changedString(cmd, "title"),
			Description: changedString(cmd, "description"),
			Status:      changedString(cmd, "status"),
			Priority:    changedString(cmd, "priority"),
			DueDate:     changedString(cmd, "due"),
			AssignedTo:  changedString(cmd, "assignee"),
			StartDate:   changedString(cmd, "start"),
		}
		if v := changedString(cmd, "project"); v != nil {
			var projectID int64
			if strings.TrimSpace(*v) != "" {
				if projectID, err = parseID(*v); err != nil {
					return err
				}
			}
			dto.ProjectID = &projectID
		}
		if v := changedString(cmd, "categories"); v != nil {
			categories := splitList(*v)
			dto.Categories = &categories
		}
		if v := changedString(cmd, "depends-on"); v != nil {
			ids, err := splitIDs(*v)
			if err != nil {
				return err
			}
			dto.Dependencies = &ids
		}
		if cmd.Flags().Changed("duration") {
			d := flagInt(cmd, "duration")
			dto.EstimatedDuration = &d
		}
		if cmd.Flags().Changed("completed") {
			c := flagBool(cmd, "completed")
			dto.Completed = &c
		}
		t, err := deps.Tasks.Update(id, dto)
		if err != nil {
			return err
		}
		all, err := deps.Tasks.All()
		if err != nil {
			return err
		}
		printTasks(printerFor(cmd.OutOrStdout(), deps), []task.Task{*t}, all)
		return nil
	}),
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a task completed or not completed",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := authorize(deps, user.ActionUpdate, user.ResourceTasks, featureTasks); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := deps.Tasks.ToggleComplete(id)
		if err != nil {
			return err
		}
		state := "incomplete"
		if t.Completed {
			state = "completed"
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Task %d marked as %s", t.ID, state)
		return nil
	}),
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := authorize(deps, user.ActionDelete, user.ResourceTasks, featureTasks); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := deps.Tasks.Delete(id); err != nil {
			return err
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Deleted task %d", id)
		return nil
	}),
}

func printTasks(p *Printer, tasks, all []task.Task) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := ""
		if t.Completed {
			done = "yes"
		}
		rows = append(rows, []string{
			formatInt(t.ID), t.Title, string(t.Status), string(t.Priority), t.ProjectName,
			formatDate(t.DueDate), t.AssignedTo, done, formatIDs(t.Dependencies),
			formatDate(t.EstimatedEndDate(all)),
		})
	}
	p.WriteTable(tasks, []string{"ID", "TITLE", "STATUS", "PRIORITY", "PROJECT", "DUE", "ASSIGNEE", "DONE", "DEPENDS ON", "EST. END"}, rows)
}

func taskFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "task title")
	f.String("description", "", "description")
	f.String("status", "", "New, Planning, In Progress, On Hold or Completed")
	f.String("priority", "", "Low, Medium or High")
	f.String("project", "", "project id")
	f.String("due", "", "due date (YYYY-MM-DD)")
	f.String("assignee", "", "assigned to")
	f.String("categories", "", "comma separated categories, e.g. Bug,Feature")
	f.String("depends-on", "", "comma separated task ids")
	f.String("start", "", "start date (YYYY-MM-DD)")
	f.Int("duration", 0, "estimated duration in days")
}

func init() {
	f := taskListCmd.Flags()
	f.String("search", "", "match title or description")
	f.String("status", "", "filter by status")
	f.String("priority", "", "filter by priority")
	f.String("project", "", "filter by project id")
	f.String("categories", "", "match any of these categories")
	f.Bool("startable", false, "only open tasks whose dependencies are completed")
	sortFlags(f)

	taskFlags(taskCreateCmd)
	taskFlags(taskUpdateCmd)
	taskUpdateCmd.Flags().Bool("completed", false, "set the completed flag")

	taskCmd.AddCommand(taskListCmd, taskCreateCmd, taskUpdateCmd, taskToggleCmd, taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}
