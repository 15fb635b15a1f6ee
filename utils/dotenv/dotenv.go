package dotenv

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

const (
	// RuntimeEnvKey selects the runtime environment of every chirp binary.
	RuntimeEnvKey = "CHIRP_ENV"

	TestEnv        = "test"
	DevelopmentEnv = "development"
	StagingEnv     = "staging"
	ProdEnv        = "production"
)

// LoadDotEnvs loads the .env files following the convention: https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only need to be called once in main function, other code can use env through os.Getenv('ENV_NAME') during runtime
func LoadDotEnvs() error {
	return loadDotEnvs("")
}

func loadDotEnvs(rootPath string) error {
	env := os.Getenv(RuntimeEnvKey)
	if env == "" {
		env = DevelopmentEnv
	}

	// godotenv.Load never overrides a variable that is already set, so files
	// loaded first win. Missing files are fine, all of them are optional.
	// .env.[runtime_env].local has highest priority, usually contains username and password and other sensitive information
	_ = godotenv.Load(rootPath + ".env." + env + ".local")
	// .env.local is skipped in tests so that every test run sees the same values
	if env != TestEnv {
		_ = godotenv.Load(rootPath + ".env.local")
	}
	// .env.[runtime_env] usually contains db connection information
	_ = godotenv.Load(rootPath + ".env." + env)
	// .env usually contains shared variables(which might be overwritten by envs above)
	_ = godotenv.Load(rootPath + ".env")
	return nil
}

// Have to write this helper function due to a known issue of godotenv
// https://github.com/joho/godotenv/issues/43
func LoadDotEnvsInTests() error {
	re := regexp.MustCompile(`^(.*chirp)`)
	cwd, _ := os.Getwd()
	rootPath := re.Find([]byte(cwd))

	if len(rootPath) == 0 {
		return godotenv.Load(".env.test")
	}
	return godotenv.Load(string(rootPath) + "/" + ".env.test")
}
