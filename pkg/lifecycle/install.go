package lifecycle

import (
	"context"
	"fmt"
	"os"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/platform"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/reconcile"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/repo"
	"github.com/rs/zerolog/log"
)

// installSteps builds the install sequence. Every step is fatal on error.
func (c *Controller) installSteps(req *Request) []step {
	return []step{
		{"confirm installation", func(ctx context.Context) (string, error) {
			return c.confirm(fmt.Sprintf(
				"Install Zabbix %s with %s and %s on %s %s?",
				req.Version, req.Database, req.WebServer, c.env.DistroID, c.env.OSVersion))
		}},
		{"install prerequisites", c.installPrerequisites},
		{"install database engine", func(ctx context.Context) (string, error) {
			return c.installDatabaseEngine(ctx, req)
		}},
		{"add repository and install packages", func(ctx context.Context) (string, error) {
			return c.installPackages(ctx, req)
		}},
		{"start and enable services", func(ctx context.Context) (string, error) {
			services := append([]string{}, productServices...)
			services = append(services, c.webServerService(req.WebServer))
			return c.startEnableServices(ctx, services)
		}},
		{"configure database", func(ctx context.Context) (string, error) {
			return c.configureDatabase(ctx, req)
		}},
		{"reconcile configuration", func(ctx context.Context) (string, error) {
			return c.reconcileConfiguration(req)
		}},
	}
}

// installPrerequisites refreshes metadata and ensures the download tooling
// the repository bootstrap needs.
func (c *Controller) installPrerequisites(ctx context.Context) (string, error) {
	out, err := c.pmRefreshMetadata(ctx)
	if err != nil {
		return out, err
	}
	if c.env.Family() == platform.FamilyAPT {
		more, err := c.pmInstall(ctx, "wget", "gnupg2")
		return out + more, err
	}
	return out, nil
}

// installDatabaseEngine installs the chosen database engine and starts its
// service.
func (c *Controller) installDatabaseEngine(ctx context.Context, req *Request) (string, error) {
	out, err := c.pmInstall(ctx, c.dbEnginePackage(req.Database))
	if err != nil {
		return out, err
	}

	// Postgres on RPM hosts is started after initdb in the configure step.
	if req.Database == DatabasePostgres && c.env.Family() == platform.FamilyRPM {
		return out, nil
	}

	svc := c.dbService(req.Database)
	more, err := c.startService(ctx, svc)
	out += more
	if err != nil {
		return out, err
	}
	more, err = c.enableService(ctx, svc)
	return out + more, err
}

// installPackages registers the product repository and installs the
// resolved package set.
func (c *Controller) installPackages(ctx context.Context, req *Request) (string, error) {
	out, err := c.addRepository(ctx, req.Version)
	if err != nil {
		return out, err
	}

	packages, err := repo.PackageSet(req.Database, req.WebServer)
	if err != nil {
		return out, NewEnvironmentError("failed to resolve package set", err)
	}

	log.Info().Strs("packages", packages).Msg("Installing package set")
	more, err := c.pmInstall(ctx, packages...)
	return out + more, err
}

// reconcileConfiguration merges the database settings and any declared
// pairs into the product config file.
func (c *Controller) reconcileConfiguration(req *Request) (string, error) {
	pairs := []reconcile.Pair{
		{Key: "DBName", Value: "zabbix"},
		{Key: "DBUser", Value: "zabbix"},
		{Key: "DBPassword", Value: req.DBPassword},
	}

	if _, err := os.Stat(c.Cfg.DeclarationFile); err == nil {
		declared, err := reconcile.LoadDeclaration(c.Cfg.DeclarationFile)
		if err != nil {
			return "", NewIOError("failed to load declaration file", err)
		}
		pairs = append(pairs, declared...)
	} else {
		log.Debug().Str("path", c.Cfg.DeclarationFile).Msg("No declaration file, applying database settings only")
	}

	applied, err := reconcile.ApplyPairs(c.Cfg.TargetConfigFile, pairs)
	if err != nil {
		return "", NewIOError("failed to reconcile configuration", err)
	}
	return fmt.Sprintf("applied %d settings", applied), nil
}
