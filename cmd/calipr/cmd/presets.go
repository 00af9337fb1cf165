package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calipr/calipr/internal/config"
)

var presetsShowOptions bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in language presets",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsShowOptions, "options", false, "List tunable option names instead")
}

func runPresets(cmd *cobra.Command, args []string) error {
	if presetsShowOptions {
		help := config.OptionHelp()
		names := make([]string, 0, len(help))
		for name := range help {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-28s %s\n", name, help[name])
		}
		return nil
	}

	ps, err := loadPresets()
	if err != nil {
		return err
	}
	for _, name := range ps.Names() {
		p := ps.ByName(name)
		exts := strings.Join(p.Extensions, " ")
		if exts == "" {
			exts = "(fallback)"
		}
		fmt.Printf("%-12s %-30s %s\n", name, exts, p.Description)
	}
	return nil
}
