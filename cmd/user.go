package cmd

import (
	"context"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Manage the organization's users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := deps.Authorizer.Require(user.ActionRead, user.ResourceUsers); err != nil {
			return err
		}
		users, err := deps.Users.List(internal.TenantIDFromContext(ctx))
		if err != nil {
			return err
		}
		printUsers(printerFor(cmd.OutOrStdout(), deps), users)
		return nil
	}),
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a user",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if _, err := deps.Authorizer.Require(user.ActionCreate, user.ResourceUsers); err != nil {
			return err
		}
		role := flagString(cmd, "role")
		if role == "" {
			role = string(user.RoleUser)
		}
		u, err := deps.Users.Create(internal.TenantIDFromContext(ctx), user.CreateUserDTO{
			Email:                 flagString(cmd, "email"),
			Name:                  flagString(cmd, "name"),
			Password:              flagString(cmd, "password"),
			Role:                  role,
			Status:                flagString(cmd, "status"),
			PasswordResetRequired: flagBool(cmd, "require-reset"),
		})
		if err != nil {
			return err
		}
		printUsers(printerFor(cmd.OutOrStdout(), deps), []user.User{*u})
		return nil
	}),
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a user; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := deps.Authorizer.Require(user.ActionUpdate, user.ResourceUsers); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		u, err := deps.Users.Update(internal.TenantIDFromContext(ctx), id, user.UpdateUserDTO{
			Email:  changedString(cmd, "email"),
			Name:   changedString(cmd, "name"),
			Role:   changedString(cmd, "role"),
			Status: changedString(cmd, "status"),
		})
		if err != nil {
			return err
		}
		printUsers(printerFor(cmd.OutOrStdout(), deps), []user.User{*u})
		return nil
	}),
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a user",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := deps.Authorizer.Require(user.ActionDelete, user.ResourceUsers); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := deps.Users.Delete(internal.TenantIDFromContext(ctx), id, internal.UserIDFromContext(ctx)); err != nil {
			return err
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Deleted user %d", id)
		return nil
	}),
}

var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <id>",
	Short: "Give a user a temporary password",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error {
		if _, err := deps.Authorizer.Require(user.ActionUpdate, user.ResourceUsers); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		temp, err := deps.Users.ResetPassword(internal.TenantIDFromContext(ctx), id)
		if err != nil {
			return err
		}
		logger.From(ctx).Info("temporary password issued", "target_user_id", id)
		p := printerFor(cmd.OutOrStdout(), deps)
		if p.JSON() {
			p.WriteJSON(map[string]interface{}{"id": id, "temporaryPassword": temp})
			return nil
		}
		p.WriteMessage("Temporary password for user %d: %s", id, temp)
		return nil
	}),
}

var userChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your own password",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		u, err := deps.Authorizer.Authenticated()
		if err != nil {
			return err
		}
		confirm := flagString(cmd, "confirm-password")
		if confirm == "" {
			confirm = flagString(cmd, "new-password")
		}
		if err := deps.Users.ChangePassword(u.TenantID, u.ID, user.ChangePasswordDTO{
			CurrentPassword: flagString(cmd, "current-password"),
			NewPassword:     flagString(cmd, "new-password"),
			ConfirmPassword: confirm,
		}); err != nil {
			return err
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Password changed")
		return nil
	}),
}

func printUsers(p *Printer, users []user.User) {
	public := make([]*user.User, 0, len(users))
	rows := make([][]string, 0, len(users))
	for i := range users {
		u := users[i].Public()
		public = append(public, u)
		reset := ""
		if u.PasswordResetRequired {
			reset = "yes"
		}
		rows = append(rows, []string{formatInt(u.ID), u.Name, u.Email, string(u.Role), string(u.Status), reset})
	}
	p.WriteTable(public, []string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "RESET PENDING"}, rows)
}

func init() {
	f := userCreateCmd.Flags()
	f.String("email", "", "email")
	f.String("name", "", "name")
	f.String("password", "", "initial password")
	f.String("role", "", "admin, manager or user (default user)")
	f.String("status", "", "active, inactive or pending (default active)")
	f.Bool("require-reset", false, "force a password change at first login")

	f = userUpdateCmd.Flags()
	f.String("email", "", "email")
	f.String("name", "", "name")
	f.String("role", "", "admin, manager or user")
	f.String("status", "", "active, inactive or pending")

	f = userChangePasswordCmd.Flags()
	f.String("current-password", "", "current password")
	f.String("new-password", "", "new password")
	f.String("confirm-password", "", "confirmation (defaults to --new-password)")

	userCmd.AddCommand(userListCmd, userCreateCmd, userUpdateCmd, userDeleteCmd, userResetPasswordCmd, userChangePasswordCmd)
	rootCmd.AddCommand(userCmd)
}
