package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
)

// userRolesCmd represents the user roles command
var userRolesCmd = &cobra.Command{
	Use:   "roles <user-id>",
	Short: "Replace the roles of a member",
	Long: `Replace the roles of a member.

Example:
  nasactl user roles emma --role ROLE_EMPLOYEE --role ROLE_ADMIN`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]
		roles, _ := cmd.Flags().GetStringSlice("role")
		roles, err := checkRoles(roles)
		if err != nil {
			return err
		}

		err = withMember(cmd.Context(), userID, func(ctx context.Context, members store.MemberStore) error {
			return members.SetRoles(ctx, userID, roles)
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s now has roles %s\n", userID, strings.Join(roles, ", "))
		return nil
	},
}

// userDeactivateCmd represents the user deactivate command
var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate <user-id>",
	Short: "Stop a member from signing in",
	Long: `Stop a member from signing in. Tokens already issued stay valid
until they expire.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]
		err := withMember(cmd.Context(), userID, func(ctx context.Context, members store.MemberStore) error {
			return members.SetActive(ctx, userID, false)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Deactivated %s\n", userID)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userRolesCmd)
	userCmd.AddCommand(userDeactivateCmd)
	userRolesCmd.Flags().StringSlice("role", nil, "role to grant, repeatable (ROLE_EMPLOYEE, ROLE_ADMIN)")
}
