// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leoFagundes/breakfast-budget-club/internal/api"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/config"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/validate"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect and promote members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every member with its role",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(users auth.UserRepository) error {
			return listMembers(cmd.Context(), users, cmd.OutOrStdout())
		})
	},
}

var usersPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Set the role of a member",
	Long: "Set the role of a member, bypassing the role editor.\n" +
		"This is the only way to create the first owner.",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")

		return withUsers(cmd.Context(), func(users auth.UserRepository) error {
			user, err := promoteMember(cmd.Context(), users, email, role)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
			return err
		})
	},
}

func init() {
	usersPromoteCmd.Flags().String("email", "", "Email of the member")
	usersPromoteCmd.Flags().String("role", string(sec.RoleOwner), "Role to assign (owner, admin, guest)")
	_ = usersPromoteCmd.MarkFlagRequired("email")

	usersCmd.AddCommand(usersListCmd, usersPromoteCmd)
}

// withUsers opens the persistent document store for one command.
func withUsers(ctx context.Context, run func(auth.UserRepository) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DocumentStore != config.DocumentStorePostgres {
		return errors.New("users commands need DOCUMENT_STORE=postgres")
	}

	documents, err := api.OpenDocuments(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer documents.Close()

	return run(auth.NewUserRepository(documents.Store))
}

/*
promoteMember assigns role to the member registered under email.

The matrix is not consulted: the operator stands in for an owner.
*/
func promoteMember(ctx context.Context, users auth.UserRepository, email, rawRole string) (*auth.User, error) {
	role, ok := sec.ParseRole(rawRole)
	if !ok {
		return nil, validate.RequiredError("role", fmt.Sprintf("Unknown role %q", rawRole))
	}

	user, err := users.FindByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}

	if err := users.UpdateRole(ctx, user.ID, role, time.Now().UTC()); err != nil {
		return nil, err
	}

	slog.Default().Info("member_promoted_by_operator",
		slog.String("user_id", user.ID),
		slog.String("from", string(user.Role)),
		slog.String("to", string(role)),
	)

	user.Role = role
	return user, nil
}

// listMembers prints members as an aligned table.
func listMembers(ctx context.Context, users auth.UserRepository, out io.Writer) error {
	members, err := users.List(ctx)
	if err != nil {
		return err
	}

	table := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tEMAIL\tNAME\tROLE")
	for _, member := range members {
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\n", member.ID, member.Email, member.Name, member.Role)
	}
	return table.Flush()
}
