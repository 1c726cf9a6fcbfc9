package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `config`
	ConfigFileType = `yaml`
	ConfigDir      = `.solosearch`
	EnvPrefix      = `SOLOSEARCH`
)
