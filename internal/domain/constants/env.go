package constants

// Runtime environment names.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)
