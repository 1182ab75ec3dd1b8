package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal/activity"
	"github.com/frahmantamala/project-management/internal/dashboard"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the organization's activity log",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent activity, newest first",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := deps.Authorizer.Require(user.ActionRead, user.ResourceProjects); err != nil {
			return err
		}
		printActivities(printerFor(cmd.OutOrStdout(), deps), deps.Activity.Recent(flagInt(cmd, "limit")))
		return nil
	}),
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Project stats, upcoming deadlines and recent activity",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := deps.Authorizer.Require(user.ActionRead, user.ResourceProjects); err != nil {
			return err
		}
		r, err := dashboard.ParseRange(flagString(cmd, "range"))
		if err != nil {
			return err
		}
		summary, err := deps.Dashboard.Summary(r)
		if err != nil {
			return err
		}

		p := printerFor(cmd.OutOrStdout(), deps)
		if p.JSON() {
			p.WriteJSON(summary)
			return nil
		}
		out := cmd.OutOrStdout()
		if a := summary.Announcement; a != nil {
			fmt.Fprintf(out, "[%s] %s\n\n", a.Color, a.Message)
		}
		s := summary.Stats
		p.WriteFields(s, [][2]string{
			{"Total projects", fmt.Sprint(s.Total)},
			{"New", fmt.Sprint(s.New)},
			{"Planning", fmt.Sprint(s.Planning)},
			{"In Progress", fmt.Sprint(s.InProgress)},
			{"On Hold", fmt.Sprint(s.OnHold)},
			{"High priority", fmt.Sprint(s.HighPriority)},
		})
		fmt.Fprintf(out, "\nUpcoming deadlines (%s)\n", summary.Range)
		rows := make([][]string, 0, len(summary.Deadlines))
		for _, d := range summary.Deadlines {
			rows = append(rows, []string{string(d.Kind), formatInt(d.ID), d.Name, formatDate(d.DueDate), string(d.Priority)})
		}
		p.WriteTable(summary.Deadlines, []string{"TYPE", "ID", "NAME", "DUE", "PRIORITY"}, rows)
		fmt.Fprintln(out, "\nRecent activity")
		printActivities(p, summary.RecentActivity)
		return nil
	}),
}

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Manage the organization announcement",
}

var announceSetCmd = &cobra.Command{
	Use:   "set <message>",
	Short: "Set the announcement",
	Args:  cobra.MinimumNArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := authorize(deps, user.ActionUpdate, user.ResourceSettings, featureAnnouncements); err != nil {
			return err
		}
		a, err := deps.Announcements.Set(strings.Join(args, " "), flagString(cmd, "color"))
		if err != nil {
			return err
		}
		p := printerFor(cmd.OutOrStdout(), deps)
		if p.JSON() {
			p.WriteJSON(a)
			return nil
		}
		p.WriteMessage("Announcement set [%s]: %s", a.Color, a.Message)
		return nil
	}),
}

var announceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the announcement",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := authorize(deps, user.ActionUpdate, user.ResourceSettings, featureAnnouncements); err != nil {
			return err
		}
		if err := deps.Announcements.Clear(); err != nil {
			return err
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Announcement removed")
		return nil
	}),
}

func printActivities(p *Printer, activities []activity.Activity) {
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, []string{
			a.Timestamp.Local().Format(time.DateTime), string(a.Type), a.Description, describeChanges(a.Details.Changes),
		})
	}
	p.WriteTable(activities, []string{"WHEN", "TYPE", "DESCRIPTION", "CHANGES"}, rows)
}

func describeChanges(changes map[string]activity.Change) string {
	labels := make([]string, 0, len(changes))
	for label := range changes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		c := changes[label]
		parts = append(parts, fmt.Sprintf("%s: %s -> %s", label, c.From, c.To))
	}
	return strings.Join(parts, "; ")
}

func init() {
	activityListCmd.Flags().Int("limit", activity.MaxEntries, "number of entries")
	dashboardCmd.Flags().String("range", "week", "deadline window: week, month or quarter")
	announceSetCmd.Flags().String("color", "", "banner color (default primary)")

	activityCmd.AddCommand(activityListCmd)
	announceCmd.AddCommand(announceSetCmd, announceClearCmd)
	rootCmd.AddCommand(activityCmd, dashboardCmd, announceCmd)
}
