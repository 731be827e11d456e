package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

var authCmd = &cobra.Command{
	Use:   "auth [code]",
	Short: "Authorize publishing to Google Docs",
	Long: `Authorize reprint to create Google Docs on your behalf.

Download an OAuth client secret for a desktop application and point
docs.client_secret at it. Run this command, open the printed URL, and
paste the code back. The token is stored at docs.token_file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	creds := docsCredentials()
	cfg, err := creds.Config()
	if err != nil {
		return err
	}

	code := ""
	if len(args) == 1 {
		code = args[0]
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Open this URL and authorize access:\n\n  %s\n\nCode: ",
			cfg.AuthCodeURL("reprint", oauth2.AccessTypeOffline))
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read code: %w", err)
		}
		code = strings.TrimSpace(line)
	}

	if err := creds.Authorize(cmd.Context(), code); err != nil {
		return err
	}
	logInfo("Token stored at %s", creds.TokenFile)
	return nil
}
