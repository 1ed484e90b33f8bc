package settings

// Overlay returns settings from base with every non-empty override applied on top.
// A nil base behaves like an empty snapshot.
func Overlay(base Settings, overrides map[string]string) Settings {
	return overlay{
		base:      base,
		overrides: overrides,
	}
}

type overlay struct {
	base      Settings
	overrides map[string]string
}

func (o overlay) Settings() (map[string]string, error) {
	values := make(map[string]string)
	if o.base != nil {
		base, err := o.base.Settings()
		if err != nil {
			return nil, err
		}
		for k, v := range base {
			values[k] = v
		}
	}
	for k, v := range o.overrides {
		if v == "" {
			continue
		}
		values[k] = v
	}
	return values, nil
}
