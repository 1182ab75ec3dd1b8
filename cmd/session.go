package cmd

import (
	"context"
	"errors"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/onboarding"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an organization and its administrator",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		confirm := flagString(cmd, "confirm-password")
		if confirm == "" {
			confirm = flagString(cmd, "password")
		}
		t, admin, err := deps.Onboarding.Signup(onboarding.SignupDTO{
			CompanyName:     flagString(cmd, "company"),
			Domain:          flagString(cmd, "domain"),
			Industry:        flagString(cmd, "industry"),
			Size:            flagString(cmd, "size"),
			AdminName:       flagString(cmd, "name"),
			Email:           flagString(cmd, "email"),
			Password:        flagString(cmd, "password"),
			ConfirmPassword: confirm,
		})
		if err != nil {
			return err
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Created organization %s (%s); logged in as %s", t.Name, t.ID, admin.Email)
		return nil
	}),
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an organization",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		dto := auth.LoginDTO{
			Email:    flagString(cmd, "email"),
			Password: flagString(cmd, "password"),
			TenantID: flagString(cmd, "tenant"),
		}
		u, err := deps.Auth.Login(dto)
		if errors.Is(err, internal.ErrPasswordResetRequired) && flagString(cmd, "new-password") != "" {
			newPassword := flagString(cmd, "new-password")
			if err := deps.Auth.CompletePasswordReset(auth.PasswordResetDTO{
				Email:           dto.Email,
				TenantID:        dto.TenantID,
				CurrentPassword: dto.Password,
				NewPassword:     newPassword,
				ConfirmPassword: newPassword,
			}); err != nil {
				return err
			}
			dto.Password = newPassword
			u, err = deps.Auth.Login(dto)
		}
		if err != nil {
			logger.From(ctx).Warn("login failed", "email", dto.Email, "error", err)
			return err
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Logged in as %s (%s) in %s", u.Name, u.Role, u.TenantID)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		if err := deps.Auth.Logout(); err != nil {
			return err
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Logged out")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the session user",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		u, err := deps.Authorizer.Authenticated()
		if err != nil {
			return err
		}
		printUser(printerFor(cmd.OutOrStdout(), deps), u)
		return nil
	}),
}

var recoverPasswordCmd = &cobra.Command{
	Use:   "recover-password",
	Short: "Reset an administrator password using the organization details",
	RunE: withDependencies(func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, _ []string) error {
		confirm := flagString(cmd, "confirm-password")
		if confirm == "" {
			confirm = flagString(cmd, "password")
		}
		if err := deps.Auth.RecoverAdminPassword(auth.RecoveryDTO{
			Email:           flagString(cmd, "email"),
			CompanyName:     flagString(cmd, "company"),
			Domain:          flagString(cmd, "domain"),
			NewPassword:     flagString(cmd, "password"),
			ConfirmPassword: confirm,
		}); err != nil {
			return err
		}
		printerFor(cmd.OutOrStdout(), deps).WriteMessage("Password updated; you can now log in")
		return nil
	}),
}

func printUser(p *Printer, u *user.User) {
	p.WriteFields(u.Public(), [][2]string{
		{"ID", formatInt(u.ID)},
		{"Name", u.Name},
		{"Email", u.Email},
		{"Role", string(u.Role)},
		{"Status", string(u.Status)},
		{"Organization", u.TenantID},
	})
}

func init() {
	f := signupCmd.Flags()
	f.String("company", "", "company name")
	f.String("domain", "", "company domain, e.g. acme.com")
	f.String("industry", "", "industry")
	f.String("size", "", "company size")
	f.String("name", "", "administrator name")
	f.String("email", "", "administrator email")
	f.String("password", "", "administrator password")
	f.String("confirm-password", "", "password confirmation (defaults to --password)")

	f = loginCmd.Flags()
	f.String("email", "", "email")
	f.String("password", "", "password")
	f.String("tenant", "", "organization id (defaults to the email domain)")
	f.String("new-password", "", "new password when a reset is pending")

	f = recoverPasswordCmd.Flags()
	f.String("email", "", "administrator email")
	f.String("company", "", "company name on record")
	f.String("domain", "", "domain on record")
	f.String("password", "", "new password")
	f.String("confirm-password", "", "password confirmation (defaults to --password)")

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd, recoverPasswordCmd)
}
