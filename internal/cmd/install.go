package cmd

import "log/slog"

type Install struct{}

func (c *Install) Run(logger *slog.Logger) error { return install(logger) }

type Uninstall struct{}

func (c *Uninstall) Run(logger *slog.Logger) error { return uninstall(logger) }
