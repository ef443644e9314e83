package readnet

// Config is the single mutable configuration record. It gates the duplicate
// read policy for every mark-read call.
type Config struct {
	PreventDuplicateReads bool `json:"preventDuplicateReads"`
}

// ConfigRepository stores the configuration singleton.
type ConfigRepository interface {
	// Get returns the configuration, creating the default record the
	// first time it is called. Concurrent first accesses create the
	// default at most once.
	Get() (Config, error)

	Set(Config) (Config, error)
}
