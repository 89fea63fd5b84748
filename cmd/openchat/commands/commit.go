package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func updateKeysCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "update-keys <group-id>",
		Short: "Rotate the group secret and produce a commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}

			id, err := parseGroupID(args[0])
			if err != nil {
				return err
			}
			commit, err := client.UpdateKeys(id)
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

func processCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process-commit <group-id> <commit-file>",
		Short: "Apply a commit received from another member",
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
			commit, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			if err := client.ProcessCommit(id, commit); err != nil {
				return err
			}

			if err := saveClient(client); err != nil {
				return err
			}

			info, err := client.GetGroupInfo(id)
			if err != nil {
				return err
			}
			fmt.Printf("Group %q now at epoch %d with %d members.\n", info.Name, info.Epoch, len(info.Members))
			return nil
		},
	}

	return cmd
}
