package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/config"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/db"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/policy"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/nasa-in-go/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <user-id>",
	Short: "Create a member",
	Long: `Create a member with a bcrypt-hashed password and one or more roles.

The password is read from --password or NASA_USER_PASSWORD.

Example:
  NASA_USER_PASSWORD=s3cret nasactl user create alice --role ROLE_ADMIN
  nasactl user create emma --role employee --password s3cret`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, _ := cmd.Flags().GetStringSlice("role")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("NASA_USER_PASSWORD")
		}

		member, err := newMember(args[0], password, roles)
		if err != nil {
			return err
		}

		members, err := openMemberStore()
		if err != nil {
			return err
		}
		if err := members.CreateMember(cmd.Context(), member); err != nil {
			return fmt.Errorf("failed to create %s: %w", member.UserID, err)
		}
		fmt.Printf("Created %s with roles %s\n", member.UserID, strings.Join(member.RoleNames(), ", "))
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringSlice("role", nil, "role to grant, repeatable (ROLE_EMPLOYEE, ROLE_ADMIN)")
	userCreateCmd.Flags().String("password", "", "password (defaults to NASA_USER_PASSWORD)")
}

// newMember validates the input and hashes the password
func newMember(userID, password string, roles []string) (*model.Member, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id must not be empty")
	}
	if password == "" {
		return nil, errors.New("a password is required, use --password or NASA_USER_PASSWORD")
	}
	roles, err := checkRoles(roles)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &model.Member{UserID: userID, Pw: "{bcrypt}" + string(hash), Active: true}
	for _, role := range roles {
		member.Roles = append(member.Roles, model.MemberRole{UserID: userID, Role: role})
	}
	return member, nil
}

// checkRoles normalizes roles and rejects any the policy does not know
func checkRoles(roles []string) ([]string, error) {
	roles = policy.NormalizeRoles(roles)
	if len(roles) == 0 {
		return nil, errors.New("at least one --role is required")
	}
	for _, role := range roles {
		if role != policy.RoleEmployee && role != policy.RoleAdmin {
			return nil, fmt.Errorf("unknown role %s, want %s or %s", role, policy.RoleEmployee, policy.RoleAdmin)
		}
	}
	return roles, nil
}

func openMemberStore() (store.MemberStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL, LogLevel: cfg.LogLevel})
	if err != nil {
		return nil, err
	}
	return gormstore.NewMemberStore(database), nil
}

// withMember runs fn and reports a missing member by name
func withMember(ctx context.Context, userID string, fn func(context.Context, store.MemberStore) error) error {
	members, err := openMemberStore()
	if err != nil {
		return err
	}
	if err := fn(ctx, members); err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			return fmt.Errorf("member not found: %s", userID)
		}
		return err
	}
	return nil
}
