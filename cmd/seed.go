package cmd

import (
	"context"

	"github.com/frahmantamala/project-management/internal/onboarding"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo organization with sample data",
	Long:  `Create a demo organization, its administrator and sample projects and tasks. Running it again changes nothing.`,
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		created, err := deps.Onboarding.SeedDemo()
		if err != nil {
			return err
		}
		p := printerFor(cmd.OutOrStdout(), deps)
		if !created {
			p.WriteMessage("Demo organization already exists (%s)", onboarding.DemoDomain)
			return nil
		}
		p.WriteMessage("Seeded demo organization %s; log in as %s / %s",
			onboarding.DemoDomain, onboarding.DemoAdminEmail, onboarding.DemoAdminPassword)
		return nil
	}),
}
