package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new group with yourself as sole member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}

			g, err := client.CreateGroup(args[0])
			if err != nil {
				return err
			}
			if err := saveClient(client); err != nil {
				return err
			}

			fmt.Printf("Group created.\nID: %s\n", hex.EncodeToString(g.ID()))
			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [group-id]",
		Short: "Show group details, or list all groups when no ID is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				for _, id := range client.GroupIDs() {
					info, err := client.GetGroupInfo(id)
					if err != nil {
						return err
					}
					fmt.Printf("%s  %q  epoch %d  %d member(s)\n",
						hex.EncodeToString(id), info.Name, info.Epoch, len(info.Members))
				}
				return nil
			}

			id, err := parseGroupID(args[0])
			if err != nil {
				return err
			}
			info, err := client.GetGroupInfo(id)
			if err != nil {
				return err
			}

			fmt.Printf("Name:  %s\nEpoch: %d\nMembers:\n", info.Name, info.Epoch)
			for _, m := range info.Members {
				fmt.Printf("  %s\n", m)
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <group-id>",
		Short: "Export a group's full state, secrets included",
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
			state, err := client.ExportGroupState(id)
			if err != nil {
				return err
			}
			return writeArtifact(out, state)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "group-state.json", "output file")
	return cmd
}
