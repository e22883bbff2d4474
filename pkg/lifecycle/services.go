package lifecycle

import (
	"context"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/platform"
)

// productServices are the services shipped by the product packages.
var productServices = []string{"zabbix-server", "zabbix-agent"}

// webServerService maps the web-server kind to its service name on the
// target environment.
func (c *Controller) webServerService(webServer string) string {
	if webServer == WebServerNginx {
		return "nginx"
	}
	if c.env.Family() == platform.FamilyAPT {
		return "apache2"
	}
	return "httpd"
}

// allWebServerServices lists every web-server service the uninstall flow
// stops, since the request does not say which one was installed.
func (c *Controller) allWebServerServices() []string {
	if c.env.Family() == platform.FamilyAPT {
		return []string{"apache2", "nginx"}
	}
	return []string{"httpd", "nginx"}
}

// dbEnginePackage resolves the database engine package for the install
// flow.
func (c *Controller) dbEnginePackage(database string) string {
	if database == DatabasePostgres {
		if c.env.Family() == platform.FamilyRPM {
			return "postgresql-server"
		}
		return "postgresql"
	}
	// MySQL family: Ubuntu ships mysql-server, everything else MariaDB.
	if c.env.Family() == platform.FamilyAPT && c.env.DistroID == "ubuntu" {
		return "mysql-server"
	}
	return "mariadb-server"
}

// dbService resolves the database engine's service name.
func (c *Controller) dbService(database string) string {
	if database == DatabasePostgres {
		return "postgresql"
	}
	if c.env.Family() == platform.FamilyAPT && c.env.DistroID == "ubuntu" {
		return "mysql"
	}
	return "mariadb"
}

func (c *Controller) startService(ctx context.Context, name string) (string, error) {
	return c.run(ctx, "systemctl", "start", name)
}

func (c *Controller) stopService(ctx context.Context, name string) (string, error) {
	return c.run(ctx, "systemctl", "stop", name)
}

func (c *Controller) enableService(ctx context.Context, name string) (string, error) {
	return c.run(ctx, "systemctl", "enable", name)
}

func (c *Controller) disableService(ctx context.Context, name string) (string, error) {
	return c.run(ctx, "systemctl", "disable", name)
}

func (c *Controller) restartService(ctx context.Context, name string) (string, error) {
	return c.run(ctx, "systemctl", "restart", name)
}

// startEnableServices starts and enables each service, accumulating output.
func (c *Controller) startEnableServices(ctx context.Context, names []string) (string, error) {
	var all string
	for _, name := range names {
		out, err := c.startService(ctx, name)
		all += out
		if err != nil {
			return all, err
		}
		out, err = c.enableService(ctx, name)
		all += out
		if err != nil {
			return all, err
		}
	}
	return all, nil
}
