package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/store"

	"github.com/alecthomas/kong"
)

// BindingsCommand groups the binding table subcommands. Edits go through
// the store, so a running padmapper picks them up from the file watch.
type BindingsCommand struct {
	Show      BindingsShow      `cmd:"" default:"1" help:"Print the binding table"`
	Set       BindingsSet       `cmd:"" help:"Bind an input to an action"`
	Unset     BindingsUnset     `cmd:"" help:"Remove the binding of an input"`
	Threshold BindingsThreshold `cmd:"" help:"Set the analog trigger press threshold"`
	Reset     BindingsReset     `cmd:"" help:"Restore the default binding table"`
	Keys      BindingsKeys      `cmd:"" help:"List the key names accepted in actions"`
}

type BindingsShow struct {
	Format string `help:"Output format" enum:"text,json,yaml,toml" default:"text"`
}

func (c *BindingsShow) Run(bindings *store.File, kctx *kong.Context) error {
	return c.write(kctx.Stdout, bindings.Path(), bindings.Load())
}

func (c *BindingsShow) write(w io.Writer, path string, t binding.Table) error {
	if c.Format != "text" && c.Format != "" {
		data, err := binding.Encode(binding.ToDocument(t), binding.Format(c.Format))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	fmt.Fprintf(w, "File:              %s\n", path)
	fmt.Fprintf(w, "Trigger threshold: %.2f\n\n", t.TriggerThreshold)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INPUT\tCONTROL\tACTION")
	for _, id := range binding.Order {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, id.Label(), t.Lookup(id))
	}
	return tw.Flush()
}

type BindingsSet struct {
	Input  string `arg:"" help:"Input name, e.g. faceSouth or l2"`
	Action string `arg:"" help:"Action, e.g. mouseLeftHold, keyTap:Enter, keyCombo:option+Tab, modifiersHold:command+shift"`
}

func (c *BindingsSet) Run(logger *slog.Logger, bindings *store.File) error {
	id, err := binding.ParseInputID(c.Input)
	if err != nil {
		return err
	}
	a, err := binding.ParseAction(c.Action)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Action, err)
	}
	if err := bindings.Save(bindings.Load().With(id, a)); err != nil {
		return err
	}
	logger.Info("Binding saved", "input", id, "action", a, "path", bindings.Path())
	return nil
}

type BindingsUnset struct {
	Input string `arg:"" help:"Input name"`
}

func (c *BindingsUnset) Run(logger *slog.Logger, bindings *store.File) error {
	id, err := binding.ParseInputID(c.Input)
	if err != nil {
		return err
	}
	if err := bindings.Save(bindings.Load().Without(id)); err != nil {
		return err
	}
	logger.Info("Binding removed", "input", id, "path", bindings.Path())
	return nil
}

type BindingsThreshold struct {
	Value float64 `arg:"" help:"Trigger travel in (0, 1) that counts as pressed"`
}

func (c *BindingsThreshold) Run(logger *slog.Logger, bindings *store.File) error {
	if err := bindings.Save(bindings.Load().WithThreshold(c.Value)); err != nil {
		return err
	}
	logger.Info("Trigger threshold saved", "threshold", c.Value, "path", bindings.Path())
	return nil
}

type BindingsReset struct{}

func (c *BindingsReset) Run(logger *slog.Logger, bindings *store.File) error {
	if _, err := bindings.Reset(); err != nil {
		return err
	}
	logger.Info("Bindings reset to defaults", "path", bindings.Path())
	return nil
}

type BindingsKeys struct{}

func (c *BindingsKeys) Run(kctx *kong.Context) error {
	return writeKeys(kctx.Stdout)
}

func writeKeys(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCODE")
	for _, k := range binding.KeyCatalog {
		fmt.Fprintf(tw, "%s\t0x%02X\n", k.Name, k.Code)
	}
	fmt.Fprintln(tw, "\nModifiers: command, option, control, shift")
	return tw.Flush()
}
