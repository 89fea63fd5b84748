package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "send <group-id> <message...>",
		Short: "Encrypt a message for the group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}

			id, err := parseGroupID(args[0])
			if err != nil {
				return err
			}
			envelope, err := client.EncryptMessage(id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return writeArtifact(out, envelope)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "message.json", "output file")
	return cmd
}

func recvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recv <group-id> <message-file>",
		Short: "Decrypt a message received from the group",
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
			envelope, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			sender, plaintext, epoch, err := client.DecryptMessage(id, envelope)
			if err != nil {
				return err
			}

			fmt.Printf("[epoch %d] %s: %s\n", epoch, sender, plaintext)
			return nil
		},
	}

	return cmd
}
