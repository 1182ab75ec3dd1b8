package cmd

import (
	"context"

	"github.com/frahmantamala/project-management/internal/core/common/workflow"
	"github.com/frahmantamala/project-management/internal/project"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := authorize(deps, user.ActionRead, user.ResourceProjects, featureProjects); err != nil {
			return err
		}
		status, err := parseOptionalStatus(flagString(cmd, "status"))
		if err != nil {
			return err
		}
		priority, err := parseOptionalPriority(flagString(cmd, "priority"))
		if err != nil {
			return err
		}
		sort, err := sortOptions(cmd)
		if err != nil {
			return err
		}
		projects, err := deps.Projects.List(project.Filter{
			Search:   flagString(cmd, "search"),
			Status:   status,
			Priority: priority,
			Sort:     sort,
		})
		if err != nil {
			return err
		}
		printProjects(printerFor(cmd.OutOrStdout(), deps), projects)
		return nil
	}),
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := authorize(deps, user.ActionCreate, user.ResourceProjects, featureProjects); err != nil {
			return err
		}
		p, err := deps.Projects.Create(project.CreateProjectDTO{
			Name:        flagString(cmd, "name"),
			Description: flagString(cmd, "description"),
			Status:      flagString(cmd, "status"),
			Priority:    flagString(cmd, "priority"),
			DueDate:     flagString(cmd, "due"),
			TeamMembers: splitList(flagString(cmd, "members")),
		})
		if err != nil {
			return err
		}
		logger.From(ctx).Info("project created", "project_id", p.ID)
		printProjects(printerFor(cmd.OutOrStdout(), deps), []project.Project{*p})
		return nil
	}),
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a project; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := authorize(deps, user.ActionUpdate, user.ResourceProjects, featureProjects); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		dto := project.UpdateProjectDTO{
			Name:        changedString(cmd, "name"),
			Description: changedString(cmd, "description"),
			Status:      changedString(cmd, "status"),
			Priority:    changedString(cmd, "priority"),
			DueDate:     changedString(cmd, "due"),
		}
		if v := changedString(cmd, "members"); v != nil {
			members := splitList(*v)
			dto.TeamMembers = &members
		}
		p, err := deps.Projects.Update(id, dto)
		if err != nil {
			return err
		}
		if name := flagString(cmd, "add-member"); name != "" {
			if p, err = deps.Projects.AddTeamMember(id, name); err != nil {
				return err
			}
		}
		if name := flagString(cmd, "remove-member"); name != "" {
			if p, err = deps.Projects.RemoveTeamMember(id, name); err != nil {
				return err
			}
		}
		printProjects(printerFor(cmd.OutOrStdout(), deps), []project.Project{*p})
		return nil
	}),
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := authorize(deps, user.ActionDelete, user.ResourceProjects, featureProjects); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := deps.Projects.Delete(id); err != nil {
			return err
		}
		removed := 0
		if flagBool(cmd, "cascade") {
			if removed, err = deps.Tasks.DeleteByProject(id); err != nil {
				return err
			}
		}
		logger.From(ctx).Info("project deleted", "project_id", id, "tasks_removed", removed)
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Deleted project %d (%d tasks removed)", id, removed)
		return nil
	}),
}

var projectTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "List projects by due date, soonest first",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := authorize(deps, user.ActionRead, user.ResourceProjects, featureProjects, featureTimeline); err != nil {
			return err
		}
		projects, err := deps.Projects.List(project.Filter{
			Sort: workflow.SortOptions{Field: workflow.SortByDueDate, Direction: workflow.Asc},
		})
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(projects))
		for _, pr := range projects {
			rows = append(rows, []string{formatDate(pr.DueDate), pr.Name, string(pr.Status), string(pr.Priority)})
		}
		printerFor(cmd.OutOrStdout(), deps).WriteTable(projects, []string{"DUE", "NAME", "STATUS", "PRIORITY"}, rows)
		return nil
	}),
}

func printProjects(p *Printer, projects []project.Project) {
	rows := make([][]string, 0, len(projects))
	for _, pr := range projects {
		rows = append(rows, []string{
			formatInt(pr.ID), pr.Name, string(pr.Status), string(pr.Priority),
			formatDate(pr.DueDate), joinNames(pr.TeamMembers),
		})
	}
	p.WriteTable(projects, []string{"ID", "NAME", "STATUS", "PRIORITY", "DUE", "TEAM"}, rows)
}

func projectFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "project name")
	f.String("description", "", "description")
	f.String("status", "", "New, Planning, In Progress, On Hold or Completed")
	f.String("priority", "", "Low, Medium or High")
	f.String("due", "", "due date (YYYY-MM-DD)")
	f.String("members", "", "comma separated team members")
}

func init() {
	f := projectListCmd.Flags()
	f.String("search", "", "match name or description")
	f.String("status", "", "filter by status")
	f.String("priority", "", "filter by priority")
	sortFlags(f)

	projectFlags(projectCreateCmd)
	projectFlags(projectUpdateCmd)
	projectUpdateCmd.Flags().String("add-member", "", "add one team member")
	projectUpdateCmd.Flags().String("remove-member", "", "remove one team member")
	projectDeleteCmd.Flags().Bool("cascade", false, "also delete the project's tasks")

	projectCmd.AddCommand(projectListCmd, projectTimelineCmd, projectCreateCmd, projectUpdateCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
