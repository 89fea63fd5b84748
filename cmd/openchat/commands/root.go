package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	openchat "github.com/DavidGershony/openChat"
	"github.com/DavidGershony/openChat/group"
)

var (
	home    string
	verbose bool
)

const savedataFile = "client.save"

func Execute() error {
	root := &cobra.Command{
		Use:   "openchat",
		Short: "Forward-secret group messaging CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".openchat")
			}
			return os.MkdirAll(home, 0o700)
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.openchat)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		initCmd(),
		keyPackageCmd(),
		createCmd(),
		infoCmd(),
		exportCmd(),
		addMemberCmd(),
		joinCmd(),
		removeMemberCmd(),
		updateKeysCmd(),
		processCommitCmd(),
		sendCmd(),
		recvCmd(),
	)

	return root.Execute()
}

// loadClient restores the client from the home directory's savedata file.
func loadClient() (*openchat.Client, error) {
	data, err := os.ReadFile(filepath.Join(home, savedataFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no identity in %s, run 'openchat init' first", home)
	}
	if err != nil {
		return nil, err
	}

	return openchat.New(&openchat.Options{
		SavedataType: openchat.SaveDataTypeClientSave,
		SavedataData: data,
	})
}

// saveClient persists the client back to the savedata file.
func saveClient(c *openchat.Client) error {
	return os.WriteFile(filepath.Join(home, savedataFile), c.GetSavedata(), 0o600)
}

// parseGroupID decodes a hex group ID argument.
func parseGroupID(arg string) ([]byte, error) {
	id, err := hex.DecodeString(arg)
	if err != nil || len(id) != group.GroupIDSize {
		return nil, fmt.Errorf("invalid group ID %q", arg)
	}
	return id, nil
}

// writeArtifact writes a produced artifact to path for delivery.
func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
