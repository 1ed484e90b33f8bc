package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	PluginsFolderKey    = "plugins_folder"
	NoSignatureCheckKey = "nasl_no_signature_check"
)

var ErrInvalidSetting = errors.New("invalid scanner setting")

// Settings provides a snapshot of the scanner-wide key/value settings.
type Settings interface {
	Settings() (map[string]string, error)
}

// Static is a fixed set of settings.
type Static map[string]string

func (s Static) Settings() (map[string]string, error) {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

// AdvisorySettings is the part of the scanner configuration needed to load advisory metadata.
type AdvisorySettings struct {
	PluginsFolder string
	// SignatureCheckDisabled trusts every metadata file without consulting the checksum cache.
	SignatureCheckDisabled bool
}

// Read takes a single snapshot from the provider and extracts the advisory settings from it.
func Read(s Settings) (AdvisorySettings, error) {
	values, err := s.Settings()
	if err != nil {
		return AdvisorySettings{}, fmt.Errorf("unable to read scanner settings: %w", err)
	}
	return Parse(values)
}

// Parse extracts the advisory settings from a settings snapshot. A missing plugins folder is not an
// error here since only locating the metadata directory depends on it.
func Parse(values map[string]string) (AdvisorySettings, error) {
	disabled, err := parseFlag(values[NoSignatureCheckKey])
	if err != nil {
		return AdvisorySettings{}, fmt.Errorf("%w: %s: %w", ErrInvalidSetting, NoSignatureCheckKey, err)
	}

	return AdvisorySettings{
		PluginsFolder:          strings.TrimSpace(values[PluginsFolderKey]),
		SignatureCheckDisabled: disabled,
	}, nil
}

// parseFlag accepts integers (nonzero is set) and the usual boolean spellings. Empty is unset.
func parseFlag(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n != 0, nil
	}
	switch strings.ToLower(raw) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean or integer", raw)
	}
	return b, nil
}
