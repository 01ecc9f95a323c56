package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/mdnote/internal/config"
)

// flagKeys maps command flags onto the config keys they override.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"addr":      "preview.addr",
	"page-size": "list.page_size",
}

func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, extra map[string]string) {
	for _, opt := range config.GetConfigOptions() {
		flag := cmd.Flags().Lookup(opt.Key)
		if flag == nil || !flag.Changed {
			continue
		}
		setFromFlag(cmd, v, opt.Key, opt.Key)
	}
	for flagName, key := range extra {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		setFromFlag(cmd, v, flagName, key)
	}
}

func setFromFlag(cmd *cobra.Command, v *viper.Viper, flagName, key string) {
	switch cmd.Flags().Lookup(flagName).Value.Type() {
	case "bool":
		if val, err := cmd.Flags().GetBool(flagName); err == nil {
			v.Set(key, val)
		}
	case "int":
		if val, err := cmd.Flags().GetInt(flagName); err == nil {
			v.Set(key, val)
		}
	case "int64":
		if val, err := cmd.Flags().GetInt64(flagName); err == nil {
			v.Set(key, val)
		}
	case "stringSlice":
		if val, err := cmd.Flags().GetStringSlice(flagName); err == nil {
			v.Set(key, val)
		}
	default:
		if val, err := cmd.Flags().GetString(flagName); err == nil {
			v.Set(key, val)
		}
	}
}

// applySetOverrides applies --set key=value pairs. Values are parsed
// according to the type of the key's default.
func applySetOverrides(v *viper.Viper, sets []string) error {
	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q: want key=value", kv)
		}
		opt, known := config.LookupOption(key)
		if !known {
			return fmt.Errorf("invalid --set %q: unknown config key %s", kv, key)
		}
		val, err := parseOptionValue(opt, strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		v.Set(key, val)
	}
	return nil
}

func parseOptionValue(opt config.ConfigOption, raw string) (any, error) {
	switch opt.Default.(type) {
	case bool:
		return strconv.ParseBool(raw)
	case int:
		return strconv.Atoi(raw)
	case []string:
		if raw == "" {
			return []string{}, nil
		}
		return splitCSV(raw), nil
	}
	return raw, nil
}

// splitCSV splits a comma-separated list into trimmed non-empty strings.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func completeConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, o := range config.GetConfigOptions() {
		if strings.HasPrefix(o.Key, toComplete) {
			out = append(out, o.Key+"=")
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}
