package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"skill-assess/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_EveryDriverHasTheSchema(t *testing.T) {
	for _, driver := range []string{config.DriverMySQL, config.DriverPostgres, config.DriverOracle} {
		t.Run(driver, func(t *testing.T) {
			files, err := migrationFiles(driver)
			require.NoError(t, err)
			require.NotEmpty(t, files)

			var all strings.Builder
			for _, f := range files {
				content, err := migrationsFS.ReadFile("migrations/" + driver + "/" + f)
				require.NoError(t, err)
				all.Write(content)
			}
			for _, table := range []string{"users", "evaluations", "question_results", "item_statistics"} {
				if driver == config.DriverOracle {
					assert.Contains(t, all.String(), "CREATE TABLE "+table+" (")
				} else {
					assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (")
				}
			}
		})
	}
}

func TestMigrationFiles_DownForEveryUp(t *testing.T) {
	for _, driver := range []string{config.DriverMySQL, config.DriverPostgres} {
		files, err := migrationFiles(driver)
		require.NoError(t, err)
		for _, up := range files {
			down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
			_, err := migrationsFS.ReadFile("migrations/" + driver + "/" + down)
			assert.NoError(t, err, "missing %s/%s", driver, down)
		}
	}
}

func TestRunOracleMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE evaluations").WillReturnError(errors.New("ORA-00955: name is already used by an existing object"))
	mock.ExpectExec("CREATE TABLE question_results").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE item_statistics").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunOracleMigrations(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOracleMigrations_Failure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE users").WillReturnError(errors.New("ORA-01031: insufficient privileges"))

	err = RunOracleMigrations(context.Background(), db)
	assert.ErrorContains(t, err, "000001_create_users.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewMigrator_UnsupportedDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewMigrator(db, config.DriverOracle)
	assert.Error(t, err)
}
