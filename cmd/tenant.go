package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/tenant"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/spf13/cobra"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Inspect and configure the current organization",
}

var tenantShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current organization",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := deps.Authorizer.Require(user.ActionRead, user.ResourceSettings); err != nil {
			return err
		}
		t := deps.Registry.CurrentTenant()
		if t == nil {
			return internal.ErrNoActiveTenant
		}
		printTenant(printerFor(cmd.OutOrStdout(), deps), t)
		return nil
	}),
}

var tenantSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Update the organization settings",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := deps.Authorizer.Require(user.ActionUpdate, user.ResourceSettings); err != nil {
			return err
		}
		var features *tenant.Features
		if v := changedString(cmd, "features"); v != nil {
			f, err := parseFeatures(*v)
			if err != nil {
				return err
			}
			features = &f
		}
		t, err := deps.Registry.UpdateSettings(func(s *tenant.Settings) {
			if v := changedString(cmd, "company"); v != nil {
				s.CompanyName = strings.TrimSpace(*v)
			}
			if v := changedString(cmd, "theme"); v != nil {
				s.Theme = *v
			}
			if v := changedString(cmd, "logo"); v != nil {
				if *v == "" {
					s.Logo = nil
				} else {
					s.Logo = v
				}
			}
			if v := changedString(cmd, "industry"); v != nil {
				s.Industry = *v
			}
			if v := changedString(cmd, "size"); v != nil {
				s.Size = *v
			}
			if features != nil {
				s.Features = *features
			}
		})
		if err != nil {
			return err
		}
		logger.From(ctx).Info("tenant settings updated", "tenant_id", t.ID)
		printTenant(printerFor(cmd.OutOrStdout(), deps), t)
		return nil
	}),
}

var tenantResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every project, task, activity and announcement of the organization",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := deps.Authorizer.RequireAdmin(); err != nil {
			return err
		}
		if !flagBool(cmd, "yes") {
			return internal.NewValidationFieldError("yes", "pass --yes to confirm the reset", internal.ErrCodeValidationFailed)
		}
		if err := deps.Registry.ClearTenantData(); err != nil {
			return err
		}
		t := deps.Registry.CurrentTenant()
		if flagBool(cmd, "sample-data") {
			if err := deps.Registry.InitializeTenantData(t); err != nil {
				return err
			}
		}
		logger.From(ctx).Warn("tenant data cleared", "tenant_id", t.ID)
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Cleared data for %s", t.ID)
		return nil
	}),
}

func parseFeatures(s string) (tenant.Features, error) {
	var f tenant.Features
	for _, name := range splitList(s) {
		switch strings.ToLower(name) {
		case "tasks":
			f.Tasks = true
		case "projects":
			f.Projects = true
		case "timeline":
			f.Timeline = true
		case "announcements":
			f.Announcements = true
		default:
			return tenant.Features{}, internal.NewValidationFieldError("features",
				fmt.Sprintf("unknown feature %q", name), internal.ErrCodeValidationFailed)
		}
	}
	return f, nil
}

func featureList(f tenant.Features) string {
	var names []string
	if f.Projects {
		names = append(names, "projects")
	}
	if f.Tasks {
		names = append(names, "tasks")
	}
	if f.Timeline {
		names = append(names, "timeline")
	}
	if f.Announcements {
		names = append(names, "announcements")
	}
	return strings.Join(names, ", ")
}

type feature struct {
	name    string
	enabled func(tenant.Features) bool
}

var (
	featureProjects      = feature{"projects", func(f tenant.Features) bool { return f.Projects }}
	featureTasks         = feature{"tasks", func(f tenant.Features) bool { return f.Tasks }}
	featureTimeline      = feature{"timeline", func(f tenant.Features) bool { return f.Timeline }}
	featureAnnouncements = feature{"announcements", func(f tenant.Features) bool { return f.Announcements }}
)

// authorize checks the session user's permission, then refuses features the
// organization turned off.
func authorize(deps *Dependencies, action user.Action, resource user.Resource, features ...feature) (*user.User, error) {
	u, err := deps.Authorizer.Require(action, resource)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return u, nil
	}
	t := deps.Registry.CurrentTenant()
	if t == nil {
		return nil, internal.ErrNoActiveTenant
	}
	for _, ft := range features {
		if !ft.enabled(t.Settings.Features) {
			return nil, internal.NewForbiddenError(fmt.Sprintf("the %s feature is disabled for this organization", ft.name), internal.ErrCodePermissionDenied)
		}
	}
	return u, nil
}

func printTenant(p *Printer, t *tenant.Tenant) {
	logo := ""
	if t.Settings.Logo != nil {
		logo = *t.Settings.Logo
	}
	p.WriteFields(t, [][2]string{
		{"ID", t.ID},
		{"Name", t.Name},
		{"Company", t.Settings.CompanyName},
		{"Domain", t.Settings.Domain},
		{"Industry", t.Settings.Industry},
		{"Size", t.Settings.Size},
		{"Theme", t.Settings.Theme},
		{"Logo", logo},
		{"Features", featureList(t.Settings.Features)},
	})
}

func init() {
	f := tenantSettingsCmd.Flags()
	f.String("company", "", "company name")
	f.String("theme", "", "theme name")
	f.String("logo", "", "logo URL, empty to remove")
	f.String("industry", "", "industry")
	f.String("size", "", "company size")
	f.String("features", "", "enabled features: projects,tasks,timeline,announcements")

	tenantResetCmd.Flags().Bool("yes", false, "confirm the reset")
	tenantResetCmd.Flags().Bool("sample-data", false, "write the sample projects and tasks afterwards")

	tenantCmd.AddCommand(tenantShowCmd, tenantSettingsCmd, tenantResetCmd)
	rootCmd.AddCommand(tenantCmd)
}
