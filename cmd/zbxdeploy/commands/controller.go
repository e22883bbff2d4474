package commands

import (
	"context"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/backup"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/execx"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/lifecycle"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/prompt"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/stores"
	"github.com/rs/zerolog/log"
)

// newController wires a lifecycle controller for one action run. With
// assumeYes, prompts are answered programmatically: confirmations succeed
// and the database-drop offer is declined.
func newController(ctx context.Context, assumeYes bool) (*lifecycle.Controller, func()) {
	runner := execx.NewLocal()

	var confirmer prompt.Confirmer
	var credentials prompt.CredentialProvider
	var chooser prompt.Chooser
	if assumeYes {
		canned := &prompt.Canned{ConfirmAnswer: true}
		confirmer, credentials, chooser = canned, canned, canned
	} else {
		terminal := prompt.NewTerminal()
		confirmer, credentials, chooser = terminal, terminal, terminal
	}

	ctl := &lifecycle.Controller{
		Runner:      runner,
		Confirmer:   confirmer,
		Credentials: credentials,
		Chooser:     chooser,
		Backups:     backup.NewManager(cfg.BackupDir, runner, backup.DefaultConfigDirs()),
		Cfg:         cfg,
	}

	cleanup := func() {}

	// The run store is observability only: if it cannot be opened the run
	// proceeds without history.
	store, err := stores.NewSQLiteStore(cfg.StorePath)
	if err == nil {
		err = store.Init(ctx)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Run history store unavailable, continuing without it")
	} else {
		ctl.Recorder = stores.NewRunRecorder(store)
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close run store")
			}
		}
	}

	return ctl, cleanup
}

// runAction executes a lifecycle request. The returned error is echoed by
// the root command.
func runAction(ctx context.Context, req *lifecycle.Request, assumeYes bool) error {
	req.NonInteractive = assumeYes

	ctl, cleanup := newController(ctx, assumeYes)
	defer cleanup()

	return ctl.Run(ctx, req)
}
