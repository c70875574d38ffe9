package config

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "STOCKLEDGER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "STOCKLEDGER_DB_DSN"
	EnvDBHost = "STOCKLEDGER_DB_HOST"
	EnvDBUser = "STOCKLEDGER_DB_USER"
	EnvDBName = "STOCKLEDGER_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
