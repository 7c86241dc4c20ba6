/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/friendsincode/freeslots/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token",
	Long:  "Print an HS256 bearer token signed with FREESLOTS_JWT_SIGNING_KEY for calling the protected API",
	RunE:  runToken,
}

// token flags
var (
	tokenSubject string
	tokenTTL     time.Duration
	tokenScopes  []string
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Client name recorded in the token (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.Flags().StringSliceVar(&tokenScopes, "scope", nil, "Scopes to grant, e.g. "+auth.ScopeFindSlots+" (repeatable; none grants every scope)")
	tokenCmd.MarkFlagRequired("subject")
}

func runToken(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if cfg.JWTSigningKey == "" {
		return fmt.Errorf("FREESLOTS_JWT_SIGNING_KEY is not set")
	}
	if tokenTTL <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	token, err := auth.Issue([]byte(cfg.JWTSigningKey), auth.Claims{
		Client: tokenSubject,
		Scopes: tokenScopes,
	}, tokenTTL)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	logger.Debug().Str("subject", tokenSubject).Dur("ttl", tokenTTL).Msg("token issued")
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
