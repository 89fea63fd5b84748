package commands

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func addMemberCmd() *cobra.Command {
	var out, keyPackagePath string

	cmd := &cobra.Command{
		Use:   "add-member <group-id> [identity]",
		Short: "Add a member and produce a welcome for them",
		Long: `Add a member and produce a welcome for them.

With an identity argument the welcome carries the raw group secret and must
travel over a trusted channel. With --keypackage the secret is sealed to the
key package's public key and the welcome may travel any channel.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}

			id, err := parseGroupID(args[0])
			if err != nil {
				return err
			}

			var welcome []byte
			switch {
			case keyPackagePath != "":
				keyPackage, err := os.ReadFile(keyPackagePath)
				if err != nil {
					return err
				}
				welcome, err = client.AddMemberSealed(id, keyPackage)
				if err != nil {
					return err
				}
			case len(args) == 2:
				welcome, err = client.AddMember(id, args[1])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either an identity argument or --keypackage is required")
			}

			if err := saveClient(client); err != nil {
				return err
			}
			return writeArtifact(out, welcome)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "welcome.json", "output file")
	cmd.Flags().StringVarP(&keyPackagePath, "keypackage", "k", "", "seal the welcome to this key package file")
	return cmd
}

func joinCmd() *cobra.Command {
	var sealed bool

	cmd := &cobra.Command{
		Use:   "join <welcome-file>",
		Short: "Join a group from a received welcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}

			welcome, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			join := client.JoinGroup
			if sealed {
				join = client.JoinGroupSealed
			}
			g, err := join(welcome)
			if err != nil {
				return err
			}

			if err := saveClient(client); err != nil {
				return err
			}

			fmt.Printf("Joined %q at epoch %d.\nID: %s\n", g.Name(), g.Epoch(), hex.EncodeToString(g.ID()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&sealed, "sealed", false, "welcome was sealed to your key package")
	return cmd
}

func removeMemberCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "remove-member <group-id> <identity>",
		Short: "Remove a member and produce a commit for the others",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}

			id, err := parseGroupID(args[0])
			if err != nil {
				return err
			}
			commit, err := client.RemoveMember(id, args[1])
			if err != nil {
				return err
			}

			if err := saveClient(client); err != nil {
				return err
			}
			return writeArtifact(out, commit)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "commit.json", "output file")
	return cmd
}
