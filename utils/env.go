package utils

import (
	"os"
	"strings"

	"github.com/Luismorlan/chirp/utils/dotenv"
)

// Environment is the runtime environment a binary is running in, selected by
// the CHIRP_ENV variable.
type Environment string

const (
	TestEnv        Environment = dotenv.TestEnv
	DevelopmentEnv Environment = dotenv.DevelopmentEnv
	StagingEnv     Environment = dotenv.StagingEnv
	ProdEnv        Environment = dotenv.ProdEnv
)

// GetRuntimeEnv returns the current runtime environment. It defaults to
// development when CHIRP_ENV is unset. Unknown values are returned as is so
// that callers can decide what to do with them.
func GetRuntimeEnv() Environment {
	env := strings.TrimSpace(os.Getenv(dotenv.RuntimeEnvKey))
	if env == "" {
		return DevelopmentEnv
	}
	return Environment(env)
}

func IsProdEnv() bool {
	return GetRuntimeEnv() == ProdEnv
}

func (e Environment) String() string {
	return string(e)
}
