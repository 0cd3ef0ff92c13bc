package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/cli"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/config"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/googleauth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// authenticate runs the browser flow; replaced in tests.
var authenticate = googleauth.Authenticate

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google services",
		Long:  `Authenticate with Gmail (to read bank notifications) and Google Sheets (to export reports).`,
	}

	cmd.AddCommand(authGmailCmd())
	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authGmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "Authorize read-only access to Gmail",
		Long: `Authorize read-only access to your Gmail account using OAuth2.

This command will:
1. Start a local callback server
2. Print a Google sign-in URL to open in your browser
3. Save the token to gmail.token_file

Run it again whenever finapp reports that access expired or was revoked.`,
		RunE: runAuthGmail,
	}

	addCredentialFlags(cmd)
	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize access to Google Sheets",
		Long: `Authorize access to Google Sheets using OAuth2 so that
'finapp export sheets' can write reports. Not needed when
sheets.service_account_path is configured.`,
		RunE: runAuthSheets,
	}

	addCredentialFlags(cmd)
	return cmd
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
}

func runAuthGmail(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	applyCredentialFlags(cmd, v, "gmail")

	cfg, err := config.LoadGmailConfig(v)
	if err != nil {
		return userFacing(err)
	}

	return runOAuth(cmd.Context(), cmd, "Gmail", cfg.OAuth)
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	applyCredentialFlags(cmd, v, "sheets")

	cfg, err := config.LoadSheetsConfig(v)
	if err != nil {
		return userFacing(err)
	}
	if cfg.ServiceAccountPath != "" {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Using service account "+cfg.ServiceAccountPath+"; no OAuth needed."))
		return nil
	}

	return runOAuth(cmd.Context(), cmd, "Google Sheets", cfg.OAuth())
}

func applyCredentialFlags(cmd *cobra.Command, v *viper.Viper, prefix string) {
	if id, _ := cmd.Flags().GetString("client-id"); id != "" {
		v.Set(prefix+".client_id", id)
	}
	if secret, _ := cmd.Flags().GetString("client-secret"); secret != "" {
		v.Set(prefix+".client_secret", secret)
	}
}

func runOAuth(ctx context.Context, cmd *cobra.Command, name string, cfg googleauth.Config) error {
	slog.Info("Starting authentication", "service", name, "token_file", cfg.TokenFile)

	token, err := authenticate(ctx, cfg)
	if err != nil {
		return common.NewUserError(name+" authentication failed", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s authenticated. Token saved to %s", name, cfg.TokenFile)))
	if !token.Expiry.IsZero() {
		slog.Debug("Token expiry", "expiry", token.Expiry)
	}
	return nil
}
