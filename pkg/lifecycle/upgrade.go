package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// upgradeSteps builds the upgrade sequence. The backup step is fatal on any
// failure: an upgrade must never proceed without a verified backup.
func (c *Controller) upgradeSteps(req *Request) []step {
	return []step{
		{"confirm upgrade", func(ctx context.Context) (string, error) {
			return c.confirm(fmt.Sprintf("Upgrade Zabbix to %s?", req.Version))
		}},
		{"stop services", func(ctx context.Context) (string, error) {
			var all string
			for _, svc := range productServices {
				out, err := c.stopService(ctx, svc)
				all += out
				if err != nil {
					return all, err
				}
			}
			return all, nil
		}},
		{"create backup", func(ctx context.Context) (string, error) {
			set, err := c.Backups.Create(ctx, req.Database)
			if err != nil {
				return "", NewIOError("backup failed", err)
			}
			return "backup set at " + set.Dir, nil
		}},
		{"update repository", func(ctx context.Context) (string, error) {
			return c.addRepository(ctx, req.Version)
		}},
		{"upgrade installed packages", c.upgradeInstalledPackages},
		{"restart services", func(ctx context.Context) (string, error) {
			var all string
			for _, svc := range productServices {
				out, err := c.restartService(ctx, svc)
				all += out
				if err != nil {
					return all, err
				}
			}
			return all, nil
		}},
		{"verify installed version", func(ctx context.Context) (string, error) {
			return c.verifyVersion(ctx, req.Version)
		}},
	}
}

// upgradeInstalledPackages upgrades only product packages that are already
// present; it never pulls in packages that were not installed before.
func (c *Controller) upgradeInstalledPackages(ctx context.Context) (string, error) {
	installed, err := c.pmQueryInstalled(ctx)
	if err != nil {
		return "", err
	}
	if len(installed) == 0 {
		return "", NewCommandError("no product packages installed, nothing to upgrade", "", nil)
	}

	log.Info().Strs("packages", installed).Msg("Upgrading installed product packages")
	return c.pmUpgrade(ctx, installed...)
}

// verifyVersion checks that the installed server version matches the
// requested one exactly. A mismatch is a verification failure, distinct
// from a command failure: every command succeeded but the upgrade did not
// take effect.
func (c *Controller) verifyVersion(ctx context.Context, requested string) (string, error) {
	out, err := c.run(ctx, "zabbix_server", "-V")
	if err != nil {
		return out, err
	}

	installed := parseServerVersion(out)
	if installed == "" {
		return out, NewVerificationError("could not parse installed version", out)
	}
	if installed != requested && !strings.HasPrefix(installed, requested+".") {
		return out, NewVerificationError(
			fmt.Sprintf("installed version %s does not match requested %s", installed, requested), out)
	}
	return fmt.Sprintf("installed version %s matches requested %s", installed, requested), nil
}

// parseServerVersion extracts the version token from `zabbix_server -V`
// output, whose first line reads like "zabbix_server (Zabbix) 6.0.27".
func parseServerVersion(output string) string {
	lines := strings.SplitN(output, "\n", 2)
	fields := strings.Fields(lines[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
