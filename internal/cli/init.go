package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skyconnfig/cognitive-os/internal/config"
)

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the data directory and default config",
	Long:  "Creates the data directory with its records subdirectory and writes a\ncommented default config.yaml. Existing files are left alone unless\n--force is set.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var created []string

	if err := os.MkdirAll(cfg.RecordsDir(), 0o700); err != nil {
		return fmt.Errorf("create records directory: %w", err)
	}
	created = append(created, cfg.RecordsDir())

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if wrote, err := writeIfMissing(path, config.DefaultConfigYAML(), initForce); err != nil {
		return err
	} else if wrote {
		created = append(created, path)
	}

	fmt.Println("cogos init complete.")
	for _, p := range created {
		fmt.Printf("  created %s\n", p)
	}
	fmt.Println("\nDrop daily record JSON files into the records directory,")
	fmt.Println("then run `cogos run` for a governance pass.")
	return nil
}

func writeIfMissing(path, content string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
