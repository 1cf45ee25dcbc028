package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jinnovation/jinja"
)

var (
	flagDataFile string
	flagOutDir   string
)

var renderCmd = &cobra.Command{
	Use:   "render [templates...]",
	Short: "Render templates against a data context",
	Long: `Render one or more template files against a context loaded from a
JSON, YAML, or TOML file. With no arguments the template is read from
stdin. With --out, each rendered template is written next to its name
under the given directory; otherwise output goes to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadContext(flagDataFile)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			source, name, err := readSource(nil)
			if err != nil {
				return err
			}
			return renderOne(source, name, data, cmd)
		}
		// Render every template, collecting failures rather than
		// stopping at the first bad file.
		var result *multierror.Error
		for _, path := range args {
			source, err := os.ReadFile(path)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			if err := renderOne(string(source), path, data, cmd); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", path, err))
			}
		}
		return result.ErrorOrNil()
	},
}

func init() {
	renderCmd.Flags().StringVarP(&flagDataFile, "data", "d", "", "Context file (json, yaml, or toml)")
	renderCmd.Flags().StringVarP(&flagOutDir, "out", "o", "", "Directory to write rendered output to")
}

func renderOne(source, name string, data map[string]interface{}, cmd *cobra.Command) error {
	log.Debug().Str("template", name).Msg("rendering")
	output, err := jinja.Render(source, data)
	if err != nil {
		return err
	}
	if flagOutDir == "" {
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	}
	if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(flagOutDir, filepath.Base(name))
	target = strings.TrimSuffix(target, ".jinja")
	log.Debug().Str("path", target).Msg("writing output")
	return os.WriteFile(target, []byte(output), 0o644)
}

// loadContext reads the render context with viper, which infers the
// format from the file extension.
func loadContext(path string) (map[string]interface{}, error) {
	if path == "" {
		return map[string]interface{}{}, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("loading context file: %w", err)
	}
	return normalize(v.AllSettings()).(map[string]interface{}), nil
}

// normalize rewrites decoded context values into the shapes the
// renderer works with: int64 for integral numbers and []interface{}
// and map[string]interface{} for collections.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(val))
		for _, item := range val {
			out = append(out, normalize(item))
		}
		return out
	case int:
		return int64(val)
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	}
	return v
}
