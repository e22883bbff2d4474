package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/execx"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/platform"
	"github.com/rs/zerolog/log"
)

// schema import locations shipped by the zabbix-sql-scripts package.
const (
	mysqlSchemaPath    = "/usr/share/zabbix-sql-scripts/mysql/server.sql.gz"
	postgresSchemaPath = "/usr/share/zabbix-sql-scripts/postgresql/server.sql.gz"
)

// sqlString renders s as a SQL string literal so credentials containing
// quotes survive interpolation.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// configureDatabase creates the product database and user, imports the
// schema, and reverts the temporary permissive setting it needed. Every
// command is fatal on failure.
func (c *Controller) configureDatabase(ctx context.Context, req *Request) (string, error) {
	switch req.Database {
	case DatabaseMySQL:
		return c.configureMySQL(ctx, req.DBPassword)
	case DatabasePostgres:
		return c.configurePostgres(ctx, req.DBPassword)
	default:
		// Kinds are validated up front; reaching this is a
		// programming-contract violation.
		return "", NewEnvironmentError(fmt.Sprintf("unreachable database kind %q", req.Database), nil)
	}
}

func (c *Controller) configureMySQL(ctx context.Context, password string) (string, error) {
	statements := []string{
		"create database if not exists zabbix character set utf8mb4 collate utf8mb4_bin",
		fmt.Sprintf("create user if not exists zabbix@localhost identified by %s", sqlString(password)),
		"grant all privileges on zabbix.* to zabbix@localhost",
		// Needed only while the schema import creates stored functions.
		"set global log_bin_trust_function_creators = 1",
	}

	var all string
	for _, stmt := range statements {
		out, err := c.run(ctx, "mysql", "-uroot", "-e", stmt)
		all += out
		if err != nil {
			return all, err
		}
	}

	out, err := c.runShell(ctx, fmt.Sprintf(
		"zcat %s | mysql --default-character-set=utf8mb4 -uzabbix -p%s zabbix",
		mysqlSchemaPath, execx.Quote(password)))
	all += out
	if err != nil {
		return all, err
	}

	// Revert the permissive setting now that the import is done.
	out, err = c.run(ctx, "mysql", "-uroot", "-e",
		"set global log_bin_trust_function_creators = 0")
	all += out
	return all, err
}

func (c *Controller) configurePostgres(ctx context.Context, password string) (string, error) {
	var all string

	// RPM-family hosts need the cluster initialized before first start.
	if c.env.Family() == platform.FamilyRPM {
		out, err := c.run(ctx, "postgresql-setup", "--initdb")
		all += out
		if err != nil {
			log.Warn().Err(err).Msg("postgresql-setup failed, cluster may already be initialized")
		}
		out, err = c.startService(ctx, "postgresql")
		all += out
		if err != nil {
			return all, err
		}
	}

	cmds := [][]string{
		{"sudo", "-u", "postgres", "psql", "-c",
			fmt.Sprintf("create user zabbix password %s", sqlString(password))},
		{"sudo", "-u", "postgres", "createdb", "-O", "zabbix", "zabbix"},
	}
	for _, cmd := range cmds {
		out, err := c.run(ctx, cmd[0], cmd[1:]...)
		all += out
		if err != nil {
			return all, err
		}
	}

	out, err := c.runShell(ctx, fmt.Sprintf(
		"zcat %s | sudo -u zabbix psql zabbix", postgresSchemaPath))
	all += out
	return all, err
}

// dropDatabase removes the product database and its user for the chosen
// kind during uninstall.
func (c *Controller) dropDatabase(ctx context.Context, database string) (string, error) {
	switch database {
	case DatabaseMySQL:
		var all string
		for _, stmt := range []string{
			"drop database if exists zabbix",
			"drop user if exists zabbix@localhost",
		} {
			out, err := c.run(ctx, "mysql", "-uroot", "-e", stmt)
			all += out
			if err != nil {
				return all, err
			}
		}
		return all, nil
	case DatabasePostgres:
		out, err := c.run(ctx, "sudo", "-u", "postgres", "dropdb", "--if-exists", "zabbix")
		if err != nil {
			return out, err
		}
		out2, err := c.run(ctx, "sudo", "-u", "postgres", "dropuser", "--if-exists", "zabbix")
		return out + out2, err
	default:
		return "", NewEnvironmentError(fmt.Sprintf("unreachable database kind %q", database), nil)
	}
}
