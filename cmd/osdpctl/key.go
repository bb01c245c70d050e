package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osdp-go/osdp-go/pkg/keystore"
)

func newKeygenCmd() *cobra.Command {
	var (
		keyDir string
		force  bool
		master string
	)

	cmd := &cobra.Command{
		Use:   "keygen <name>",
		Short: "Generate and store a secure channel base key",
		Long: `Generate a random base key and commit it to the key directory. With
--master the key is derived from a hex master key and the name instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ks, err := keystore.Open(keyDir)
			if err != nil {
				return err
			}
			defer ks.Close()

			if !force {
				if _, err := ks.LoadKey(name, 0); err == nil {
					return fmt.Errorf("%w: %s (use --force to replace)", keystore.ErrKeyExists, name)
				}
			}

			var key []byte
			if master != "" {
				m, err := hex.DecodeString(master)
				if err != nil {
					return fmt.Errorf("%w: master: %v", keystore.ErrKeyEncoding, err)
				}
				key, err = keystore.DeriveKey(m, name, ks.KeyLength())
				if err != nil {
					return err
				}
				if err := ks.SetKey(name, key); err != nil {
					return err
				}
			} else {
				key, err = ks.NewKey(name, 0, true)
				if err != nil {
					return err
				}
			}
			if err := ks.CommitKey(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, hex.EncodeToString(key))
			return nil
		},
	}
	cmd.Flags().StringVar(&keyDir, "key-dir", ".", "key directory")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing key")
	cmd.Flags().StringVar(&master, "master", "", "derive the key from this hex master key")
	return cmd
}

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Inspect stored keys",
	}

	var keyDir string
	show := &cobra.Command{
		Use:   "show <name>...",
		Short: "Print stored keys as hex",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keystore.Open(keyDir)
			if err != nil {
				return err
			}
			defer ks.Close()

			for _, name := range args {
				key, err := ks.LoadKey(name, 0)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, hex.EncodeToString(key))
			}
			return nil
		},
	}
	show.Flags().StringVar(&keyDir, "key-dir", ".", "key directory")
	cmd.AddCommand(show)
	return cmd
}
