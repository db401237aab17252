package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/linklock-project/linklock/pkg/color"
	"github.com/linklock-project/linklock/pkg/config"
	"github.com/linklock-project/linklock/pkg/errclass"
	"github.com/linklock-project/linklock/pkg/model"
)

func fmtErr(format string, args ...any) {
	prefix := "linklock: "
	if color.Enabled() {
		prefix = color.Error("linklock:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}

// loadOptions builds lock options from defaults overlaid with the config
// file, ready for flag overrides.
func loadOptions() (model.Options, error) {
	opts := model.DefaultOptions()

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return opts, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return opts, err
	}
	if err := cfg.Apply(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// isUnsetToken reports whether a flag value spells "unset". The literal
// tokens nil and null are accepted alongside true/false so every option can
// be forced from the command line regardless of its config-file value.
func isUnsetToken(s string) bool {
	return s == "nil" || s == "null"
}

// parseDurationToken parses a duration flag. Go duration syntax is
// preferred; a bare number is taken as seconds.
func parseDurationToken(name, s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	return 0, errclass.ErrConfigInvalid.WithMessagef("--%s: cannot parse %q as a duration", name, s)
}

// applyTriDuration handles flags whose absence, nil token, or value map to
// a *time.Duration option.
func applyTriDuration(name, s string, dst **time.Duration) error {
	if s == "" {
		return nil
	}
	if isUnsetToken(s) {
		*dst = nil
		return nil
	}
	d, err := parseDurationToken(name, s)
	if err != nil {
		return err
	}
	*dst = &d
	return nil
}

// applyDuration handles plain duration flags.
func applyDuration(name, s string, dst *time.Duration) error {
	if s == "" {
		return nil
	}
	if isUnsetToken(s) {
		*dst = 0
		return nil
	}
	d, err := parseDurationToken(name, s)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

// applyTriInt handles the retries flag: a number, or nil/null for
// unlimited.
func applyTriInt(name, s string, dst **int) error {
	if s == "" {
		return nil
	}
	if isUnsetToken(s) {
		*dst = nil
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return errclass.ErrConfigInvalid.WithMessagef("--%s: cannot parse %q as an integer", name, s)
	}
	*dst = &v
	return nil
}

// applyInt handles plain integer flags.
func applyInt(name, s string, dst *int) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return errclass.ErrConfigInvalid.WithMessagef("--%s: cannot parse %q as an integer", name, s)
	}
	*dst = v
	return nil
}

// applyBoolToken handles flags accepting the literal tokens true and false.
func applyBoolToken(name, s string, dst *bool) error {
	switch s {
	case "":
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return errclass.ErrConfigInvalid.WithMessagef("--%s: expected true or false, got %q", name, s)
	}
	return nil
}
