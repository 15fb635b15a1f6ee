// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Luismorlan/chirp/model"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8
)

// GormTransaction is the callback function used during db.Transaction in Gorm.
type GormTransaction func(tx *gorm.DB) error

// DBConfig holds everything needed to build a postgres DSN.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", c.Host, c.User, c.Password, c.Name, c.Port)
}

// requireEnv reads every key from env and returns an error naming all the
// missing ones at once.
func requireEnv(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	missing := []string{}
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		values[key] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required database environment variables: %s", strings.Join(missing, ", "))
	}
	return values, nil
}

// LoadDBConfig reads the application database config from env. DB_PASS is
// optional, every other variable is required.
func LoadDBConfig() (DBConfig, error) {
	values, err := requireEnv("DB_HOST", "DB_PORT", "DB_USER", "DB_NAME")
	if err != nil {
		return DBConfig{}, err
	}
	return DBConfig{
		Host:     values["DB_HOST"],
		Port:     values["DB_PORT"],
		User:     values["DB_USER"],
		Password: os.Getenv("DB_PASS"),
		Name:     values["DB_NAME"],
	}, nil
}

// loadDefaultDBConfig reads the config of the admin database, which is used
// to create and drop databases.
func loadDefaultDBConfig() (DBConfig, error) {
	values, err := requireEnv("DB_HOST", "DB_PORT", "DEFAULT_DB_USER", "DEFAULT_DB_NAME")
	if err != nil {
		return DBConfig{}, err
	}
	return DBConfig{
		Host:     values["DB_HOST"],
		Port:     values["DB_PORT"],
		User:     values["DEFAULT_DB_USER"],
		Password: os.Getenv("DEFAULT_DB_PASS"),
		Name:     values["DEFAULT_DB_NAME"],
	}, nil
}

func isTempDB(dbName string) bool {
	return strings.HasPrefix(dbName, TestDBPrefix)
}

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// GetDBConnection get a connection to the database specified by env
func GetDBConnection() (*gorm.DB, error) {
	cfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}
	return getDB(cfg.DSN())
}

// GetDefaultDBConnection connect to database "postgres" to manage all dbs
func GetDefaultDBConnection() (*gorm.DB, error) {
	cfg, err := loadDefaultDBConfig()
	if err != nil {
		return nil, err
	}
	return getDB(cfg.DSN())
}

// GetCustomizedConnection connect to any db on the configured host, using the
// admin credentials.
func GetCustomizedConnection(dbName string) (*gorm.DB, error) {
	cfg, err := loadDefaultDBConfig()
	if err != nil {
		return nil, err
	}
	cfg.Name = dbName
	return getDB(cfg.DSN())
}

// Create a temp DB for testing, note that this function should only be called
// in a testing environment with test state manager testing.T
// It is guaranteed that this table will be dropped after each test case, user
// will not need to drop the database explicitly.
//
// The test is skipped when no database is configured at all, and fails
// immediately when only part of the configuration is present.
//
// Note: There are 2 cases where database won't be cleaned up:
// 1. Test fail due to timeout
// 2. Exit with signal Ctrl+C
// In both cases you should log into the database and do a manual cleanup for
// databases with prefix "testonlydb_".
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	if os.Getenv("DB_HOST") == "" && os.Getenv("DEFAULT_DB_NAME") == "" {
		t.Skip("no test database configured, set DB_HOST and DEFAULT_DB_NAME in .env.test")
	}

	db, err := GetDefaultDBConnection()
	if err != nil {
		t.Fatalf("cannot connect to DB: %v. Please check your .env.test file", err)
	}
	dbName := randomTestDBName()
	if err = db.Exec("CREATE DATABASE " + dbName).Error; err != nil {
		t.Fatalf("fail to create temp DB with name %s: %v", dbName, err)
	}
	newDB, err := GetCustomizedConnection(dbName)
	if err != nil {
		t.Fatalf("fail to connect to newly created DB %s: %v", dbName, err)
	}
	if err = DatabaseSetupAndMigration(newDB); err != nil {
		t.Fatalf("fail to migrate temp DB %s: %v", dbName, err)
	}
	t.Cleanup(func() {
		if err := dropTempDB(newDB, dbName); err != nil {
			t.Logf("cannot drop temp DB %s: %v", dbName, err)
		}

		// Also proactively clean up the DB connections instead of deferring to GC.
		// Otherwise, we might exceed the DB max connection limit in test and
		// causing some tests to fail.
		if conn, err := db.DB(); err == nil {
			conn.Close()
		}
	})

	return newDB, dbName
}

// dropTempDB drops a temp db with given name. This will always be called after
// CreateTempDB. This function can be called multiple times. It won't fail on
// deleting non-existing DB.
func dropTempDB(curDB *gorm.DB, dbName string) error {
	if !isTempDB(dbName) {
		return fmt.Errorf("cannot delete a non-testing DB %s", dbName)
	}

	exists, err := IsDatabaseExist(dbName)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	// We need to close the current DB connection first. Otherwise it's not
	// possible to drop it. However we don't check if sqlDB is closed successfully
	// because fail to close will still produce error when we try to drop it.
	sqlDB, err := curDB.DB()
	if err != nil {
		return errors.Wrap(err, "cannot get the current SQL DB")
	}
	sqlDB.Close()

	db, err := GetDefaultDBConnection()
	if err != nil {
		return err
	}
	defer closeDB(db)
	return db.Exec("DROP DATABASE IF EXISTS " + dbName).Error
}

func getDB(connectionString string) (db *gorm.DB, err error) {
	return gorm.Open(postgres.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Surface unique and foreign key violations as gorm.ErrDuplicatedKey and
		// gorm.ErrForeignKeyViolated instead of driver specific errors.
		TranslateError: true,
	})
}

func closeDB(db *gorm.DB) {
	if conn, err := db.DB(); err == nil {
		conn.Close()
	}
}

// DatabaseSetupAndMigration creates or updates the four chirp tables. Order
// matters, referenced tables are migrated first.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Tweet{}, &model.Follow{}, &model.Like{})
}

// IsDatabaseExist returns true on DB exist, returns false on not exist or error
func IsDatabaseExist(dbName string) (bool, error) {
	db, err := GetDefaultDBConnection()
	if err != nil {
		return false, err
	}
	defer closeDB(db)

	var exists bool
	res := db.Raw("SELECT TRUE FROM pg_catalog.pg_database WHERE lower(datname) = lower(?) limit 1;", dbName).Scan(&exists)
	if res.Error != nil {
		return false, res.Error
	}

	return exists, nil
}
