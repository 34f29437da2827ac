package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegisterCmd creates the "register" subcommand.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE:  runRegister,
	}
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runRegister(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, err := passwordFlag(cmd)
	if err != nil {
		return err
	}

	ctrl, closeFn, err := controllerFor(cmd, false)
	if err != nil {
		return err
	}
	defer closeFn()

	res := ctrl.Register(cmd.Context(), name, email, password)
	if err := printResult(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if !res.AutoLogin {
		fmt.Fprintf(cmd.OutOrStdout(), "Next: suckdsa verify --email %s --name %q --otp <code>\n", res.Email, name)
	}
	return nil
}

// NewVerifyCmd creates the "verify" subcommand.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm a registration with the emailed OTP",
		Args:  cobra.NoArgs,
		RunE:  runVerify,
	}
	cmd.Flags().String("email", "", "Email address used to register")
	cmd.Flags().String("otp", "", "Six digit code from the email")
	cmd.Flags().String("name", "", "Display name used to register")
	cmd.Flags().String("password", "", "Password used to register (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("otp")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runVerify(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	otp, _ := cmd.Flags().GetString("otp")
	name, _ := cmd.Flags().GetString("name")
	password, err := passwordFlag(cmd)
	if err != nil {
		return err
	}

	ctrl, closeFn, err := controllerFor(cmd, false)
	if err != nil {
		return err
	}
	defer closeFn()

	return printResult(cmd.OutOrStdout(), ctrl.VerifyOTP(cmd.Context(), email, otp, name, password))
}

// NewResendCmd creates the "resend" subcommand.
func NewResendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Send a fresh OTP",
		Args:  cobra.NoArgs,
		RunE:  runResend,
	}
	cmd.Flags().String("email", "", "Email address used to register")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runResend(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	ctrl, closeFn, err := controllerFor(cmd, false)
	if err != nil {
		return err
	}
	defer closeFn()

	return printResult(cmd.OutOrStdout(), ctrl.ResendOTP(cmd.Context(), email))
}

// NewLoginCmd creates the "login" subcommand.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE:  runLogin,
	}
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, err := passwordFlag(cmd)
	if err != nil {
		return err
	}

	ctrl, closeFn, err := controllerFor(cmd, false)
	if err != nil {
		return err
	}
	defer closeFn()

	return printResult(cmd.OutOrStdout(), ctrl.Login(cmd.Context(), email, password))
}

// NewLogoutCmd creates the "logout" subcommand.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, closeFn, err := controllerFor(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			ctrl.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// NewWhoamiCmd creates the "whoami" subcommand.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, closeFn, err := controllerFor(cmd, true)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := requireLogin(ctrl); err != nil {
				return err
			}

			user := ctrl.State().User
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(out, "  id:       %s\n", user.ID)
			fmt.Fprintf(out, "  verified: %t\n", user.IsVerified)
			if user.LastLogin != nil {
				fmt.Fprintf(out, "  last login: %s\n", user.LastLogin.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
