package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	openchat "github.com/DavidGershony/openChat"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate an identity and initialize the state directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(home, savedataFile)
			if _, err := os.Stat(path); err == nil {
				return errors.New("identity already exists, refusing to overwrite")
			}

			client, err := openchat.New(openchat.NewOptions())
			if err != nil {
				return err
			}
			if err := saveClient(client); err != nil {
				return err
			}

			fmt.Printf("Identity created.\nPublic key: %s\n", client.SelfIdentity())
			return nil
		},
	}
}

func keyPackageCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keypackage",
		Short: "Write a key package other members use to invite you",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}

			data, err := client.GenerateKeyPackage()
			if err != nil {
				return err
			}
			return writeArtifact(out, data)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "keypackage.json", "output file")
	return cmd
}
