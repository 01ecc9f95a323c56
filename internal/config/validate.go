package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/mithrel/mdnote/internal/export"
)

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if strings.TrimSpace(v.GetString("export.dir")) == "" {
		add("export.dir is required")
	}
	if _, err := export.ParseFormat(v.GetString("export.format")); err != nil {
		add("export.format: %v", err)
	}
	if v.GetInt("pretty.width") <= 0 {
		add("pretty.width must be greater than 0")
	}
	if v.GetInt("list.page_size") <= 0 {
		add("list.page_size must be greater than 0")
	}
	if _, err := log.ParseLevel(v.GetString("log.level")); err != nil {
		add("log.level %q is not a known level", v.GetString("log.level"))
	}
	if _, _, err := net.SplitHostPort(v.GetString("preview.addr")); err != nil {
		add("preview.addr %q must be host:port", v.GetString("preview.addr"))
	}
	if v.GetBool("render.gfm_refs") {
		if strings.TrimSpace(v.GetString("render.issues_url")) == "" {
			add("render.issues_url is required when render.gfm_refs is on")
		}
		if u, err := url.Parse(v.GetString("render.users_url")); err != nil || v.GetString("render.users_url") == "" || (u.Scheme != "" && u.Host == "") {
			add("render.users_url has invalid url")
		}
	}
	return errors.Join(errs...)
}
