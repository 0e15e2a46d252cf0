package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/worshipdesk/worshipdesk-backend/internal/admin"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	"github.com/worshipdesk/worshipdesk-backend/pkg/security"
)

const tempPasswordLength = 16

func newRootCmd(open serviceFactory) *cobra.Command {
	root := &cobra.Command{
		Use:          "worshipctl",
		Short:        "Administrative tasks for the worship team backend",
		SilenceUsage: true,
	}
	root.AddCommand(
		newEnsureAdminCmd(open),
		newProvisionCmd(open),
		newRoleCmd(open, "assign-role", "Grant a role to a member", true),
		newRoleCmd(open, "remove-role", "Revoke a role from a member", false),
		newListUsersCmd(open),
	)
	return root
}

func newEnsureAdminCmd(open serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "create-default-admin",
		Short: "Create or link the default administrator identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			msg, err := svc.EnsureDefaultAdmin(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newProvisionCmd(open serviceFactory) *cobra.Command {
	var (
		email    string
		password string
		name     string
		roleList []string
	)
	cmd := &cobra.Command{
		Use:   "provision-user",
		Short: "Create an identity and member with the given roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			generated := password == ""
			if generated {
				if password, err = security.GenerateTempPassword(tempPasswordLength); err != nil {
					return err
				}
			}

			res, err := svc.Provision(cmd.Context(), admin.CreateUserRequest{
				Email:    email,
				Password: password,
				Name:     name,
				Roles:    roleList,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PROVISIONED member=%s identity=%s\n", res.MemberID, res.AuthUserID)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "TEMP PASSWORD %s\n", password)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringSliceVar(&roleList, "role", nil, "role to grant (repeatable)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newRoleCmd(open serviceFactory, use, short string, grant bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <member-id> <role>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid member id %q", args[0])
			}
			role, err := enums.ParseRoleName(strings.ToLower(strings.TrimSpace(args[1])))
			if err != nil {
				return err
			}

			svc, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			req := admin.RoleRequest{MemberID: memberID, RoleName: role.String()}
			if grant {
				err = svc.AssignRole(cmd.Context(), req)
			} else {
				err = svc.RemoveRole(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", strings.ToUpper(strings.ReplaceAll(use, "-", " ")), memberID, role)
			return nil
		},
	}
}

func newListUsersCmd(open serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "Print members with their roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			listing, err := svc.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			roleNames := make(map[uuid.UUID]string, len(listing.Roles))
			for _, r := range listing.Roles {
				roleNames[r.ID] = r.Name.String()
			}
			byMember := map[uuid.UUID][]string{}
			for _, ur := range listing.UserRoles {
				byMember[ur.MemberID] = append(byMember[ur.MemberID], roleNames[ur.RoleID])
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLES")
			for _, m := range listing.Members {
				assigned := byMember[m.ID]
				sort.Strings(assigned)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Email, strings.Join(assigned, ","))
			}
			return tw.Flush()
		},
	}
}
