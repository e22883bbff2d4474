package lifecycle

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// uninstallSteps builds the uninstall sequence. The sequence runs under the
// best-effort policy: command failures are warnings and the remaining
// cleanup still runs, since a partially-uninstalled system is safer to
// leave than abandoning cleanup entirely.
func (c *Controller) uninstallSteps(req *Request) []step {
	return []step{
		{"confirm uninstall", func(ctx context.Context) (string, error) {
			return c.confirm("Remove the Zabbix server and its packages from this host?")
		}},
		{"stop and disable services", c.stopAllServices},
		{"remove product packages", c.removeProductPackages},
		{"remove repository registration", c.removeRepository},
		{"drop database", func(ctx context.Context) (string, error) {
			return c.maybeDropDatabase(ctx, req)
		}},
	}
}

// stopAllServices stops and disables product and web-server services,
// ignoring failures: a service may simply not exist on this host.
func (c *Controller) stopAllServices(ctx context.Context) (string, error) {
	services := append([]string{}, productServices...)
	services = append(services, c.allWebServerServices()...)

	var all string
	for _, svc := range services {
		out, err := c.stopService(ctx, svc)
		all += out
		if err != nil {
			log.Warn().Str("service", svc).Msg("Failed to stop service, it may not exist")
		}
		out, err = c.disableService(ctx, svc)
		all += out
		if err != nil {
			log.Warn().Str("service", svc).Msg("Failed to disable service, it may not exist")
		}
	}
	return all, nil
}

// removeProductPackages queries installed product packages and removes
// them. Finding none is a no-op, not an error.
func (c *Controller) removeProductPackages(ctx context.Context) (string, error) {
	installed, err := c.pmQueryInstalled(ctx)
	if err != nil {
		return "", err
	}
	if len(installed) == 0 {
		log.Info().Msg("No product packages installed, nothing to remove")
		return "no product packages installed", nil
	}

	log.Info().Strs("packages", installed).Msg("Removing product packages")
	return c.pmRemove(ctx, installed...)
}

// removeRepository deletes the repository registration file.
func (c *Controller) removeRepository(_ context.Context) (string, error) {
	path := c.repositoryFile()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return "repository file already absent", nil
		}
		return "", NewIOError(fmt.Sprintf("failed to remove %s", path), err)
	}
	return "removed " + path, nil
}

// maybeDropDatabase interactively offers to drop the product database and
// user. Declined or unrecognized answers are logged and skipped without
// aborting the uninstall. A backup set is taken before dropping.
func (c *Controller) maybeDropDatabase(ctx context.Context, req *Request) (string, error) {
	drop := req.DropDatabase
	if !drop && !req.NonInteractive {
		var err error
		drop, err = c.Confirmer.Confirm("Drop the zabbix database and its user as well?")
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read drop confirmation")
			drop = false
		}
	}
	if !drop {
		log.Info().Msg("Keeping the database")
		return "database kept", nil
	}

	kind := req.Database
	var err error
	if kind == "" {
		kind, err = c.Chooser.Choose("Which database engine is in use?",
			[]string{DatabaseMySQL, DatabasePostgres})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read database choice")
			kind = ""
		}
	}
	if kind == "" {
		log.Warn().Msg("No database kind chosen, skipping drop")
		return "database kept, no kind chosen", nil
	}

	if c.Backups != nil {
		if _, err := c.Backups.Create(ctx, kind); err != nil {
			log.Warn().Err(err).Msg("Pre-drop backup failed, keeping the database")
			return "database kept, backup failed", nil
		}
	}

	return c.dropDatabase(ctx, kind)
}
