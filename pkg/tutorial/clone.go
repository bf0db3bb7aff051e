package tutorial

// Clone returns a deep copy of the action bundle. A nil receiver yields nil.
func (a *Actions) Clone() *Actions {
	if a == nil {
		return nil
	}
	return &Actions{
		Files:          cloneStrings(a.Files),
		Commands:       cloneStrings(a.Commands),
		VSCodeCommands: cloneValues(a.VSCodeCommands),
		Watchers:       cloneStrings(a.Watchers),
		Filter:         a.Filter,
		Subtasks:       a.Subtasks,
	}
}

// Clone returns a deep copy of the bundle. A nil receiver yields nil.
func (c *ConfigActions) Clone() *ConfigActions {
	if c == nil {
		return nil
	}
	return &ConfigActions{
		Commits:        cloneStrings(c.Commits),
		Commands:       cloneStrings(c.Commands),
		VSCodeCommands: cloneValues(c.VSCodeCommands),
	}
}

// Clone returns a deep copy of the configuration block.
func (c TutorialConfig) Clone() TutorialConfig {
	out := TutorialConfig{
		TestRunner: c.TestRunner,
		Repo:       c.Repo,
		Setup:      c.Setup.Clone(),
		Reset:      c.Reset.Clone(),
		Continue:   c.Continue.Clone(),
	}
	if c.Dependencies != nil {
		out.Dependencies = append([]Dependency(nil), c.Dependencies...)
	}
	if c.AppVersions != nil {
		v := *c.AppVersions
		out.AppVersions = &v
	}
	if c.Webhook != nil {
		w := *c.Webhook
		out.Webhook = &w
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// cloneValues copies decoded YAML/JSON values (scalars, slices and maps).
func cloneValues(v []any) []any {
	if v == nil {
		return nil
	}
	out := make([]any, len(v))
	for i, item := range v {
		out[i] = cloneValue(item)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		return cloneValues(val)
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = cloneValue(item)
		}
		return m
	default:
		return val
	}
}
