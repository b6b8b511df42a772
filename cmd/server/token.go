package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"jira_gateway/internal/config"
	"jira_gateway/internal/storage"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the Jira token kept in the S3 credential store",
	}
	cmd.AddCommand(newTokenPutCmd())
	return cmd
}

func newTokenPutCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Encrypt a Jira token read from stdin and store it in S3",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadTokenStore(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				name = cfg.JiraTokenKey
			}

			token, err := readToken(cmd.InOrStdin())
			if err != nil {
				return err
			}

			store, err := storage.NewS3TokenStoreFromEnv(cmd.Context(), cfg.JiraTokenBucket, cfg.JiraTokenEncryptKey)
			if err != nil {
				return err
			}
			if err := store.SetToken(cmd.Context(), name, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored token %q in s3://%s\n", name, cfg.JiraTokenBucket)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", config.DefaultTokenKey, "entry name, defaults to JIRA_TOKEN_KEY")
	return cmd
}

// readToken takes the first non-empty line of r.
func readToken(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if token := strings.TrimSpace(scanner.Text()); token != "" {
			return token, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return "", fmt.Errorf("no token given on stdin")
}
