package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Start a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register <nombre> <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE:  runWhoami,
}

var forgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Request a password reset",
	Args:  cobra.ExactArgs(1),
	RunE:  runForgot,
}

var resetCmd = &cobra.Command{
	Use:   "reset <token> <new-password>",
	Short: "Reset the password with a reset token",
	Args:  cobra.ExactArgs(2),
	RunE:  runReset,
}

func init() {
	loginCmd.Flags().StringP("password", "p", "", "account password")
	registerCmd.Flags().StringP("password", "p", "", "account password")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, forgotCmd, resetCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, _ := cmd.Flags().GetString("password")
	if args[0] == "" || password == "" {
		return errors.New("email y contraseña son obligatorios")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.sess.Login(cmd.Context(), args[0], password); err != nil {
		a.printer.Error("%s", a.sess.Err())
		return err
	}

	user, _ := a.sess.User()
	a.printer.Success("Sesión iniciada como %s", a.printer.Bold(user.Nombre))
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, _ := cmd.Flags().GetString("password")
	if args[0] == "" || args[1] == "" || password == "" {
		return errors.New("nombre, email y contraseña son obligatorios")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.sess.Register(cmd.Context(), args[0], args[1], password); err != nil {
		a.printer.Error("%s", a.sess.Err())
		return err
	}

	if a.sess.LoggedIn() {
		a.printer.Success("Cuenta creada, sesión iniciada")
	} else {
		a.printer.Success("Cuenta creada, inicia sesión para continuar")
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.sess.Logout()
	a.printer.Success("Sesión cerrada")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.sess.Reconcile(cmd.Context())

	user, ok := a.sess.User()
	if !ok {
		a.printer.Print("No hay sesión activa")
		return nil
	}
	a.printer.Print("%s <%s> (%s)", user.Nombre, user.Email, user.RoleTag())
	return nil
}

func runForgot(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.client.ForgotPassword(cmd.Context(), args[0])
	if err != nil {
		a.printer.Error("No se pudo solicitar el restablecimiento")
		return err
	}
	a.printer.Print("%s", resp.Msg)
	if resp.ResetToken != "" {
		a.printer.Print("Token: %s", resp.ResetToken)
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	msg, err := a.client.ResetPassword(cmd.Context(), args[0], args[1])
	if err != nil {
		a.printer.Error("No se pudo restablecer la contraseña")
		return err
	}
	a.printer.Success("%s", msg)
	return nil
}
