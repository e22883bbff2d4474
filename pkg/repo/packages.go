package repo

import "fmt"

// PackagePrefix is the glob the uninstall flow uses to find installed
// product packages via the package manager's query interface.
const PackagePrefix = "zabbix-"

// PackageSet returns the ordered list of product packages for a deployment.
// The order is deterministic and keeps the database-flavored server package
// ahead of the frontend.
func PackageSet(database, webServer string) ([]string, error) {
	var server string
	switch database {
	case "mysql":
		server = "zabbix-server-mysql"
	case "pgsql":
		server = "zabbix-server-pgsql"
	default:
		return nil, fmt.Errorf("unknown database kind %q", database)
	}

	var webConf string
	switch webServer {
	case "apache":
		webConf = "zabbix-apache-conf"
	case "nginx":
		webConf = "zabbix-nginx-conf"
	default:
		return nil, fmt.Errorf("unknown web server kind %q", webServer)
	}

	return []string{
		server,
		"zabbix-frontend-php",
		webConf,
		"zabbix-sql-scripts",
		"zabbix-agent",
	}, nil
}
