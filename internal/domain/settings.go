package domain

// Settings is a snapshot of the process-wide configuration row. It is
// read once per decision and passed explicitly; nothing in this
// package reaches into ambient state.
type Settings struct {
	DefaultAuthMethod AuthMethod
}

// DefaultSettings applies when no settings row exists yet.
func DefaultSettings() Settings {
	return Settings{DefaultAuthMethod: AuthMethodEmailMatching}
}
