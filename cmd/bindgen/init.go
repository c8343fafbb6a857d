package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bindgen/internal/config"
)

func newInitCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default " + config.FileName,
		Long: `Write a configuration file with every default spelled out. If [dir] is
omitted, the current directory is used; a missing directory is created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 && args[0] != "" {
				target = args[0]
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
			path := filepath.Join(target, config.FileName)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("already initialized: %s exists", path)
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := config.Default()
			if lang != "" {
				l, err := config.ParseLanguage(lang)
				if err != nil {
					return err
				}
				cfg.Language = l
			}
			var buf bytes.Buffer
			buf.WriteString("# bindgen configuration\n")
			if err := config.Encode(&buf, cfg); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "header language to record (C|C++)")
	return cmd
}
