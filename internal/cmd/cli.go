// Package cmd holds the padmapper command line: the root CLI struct and one
// kong command per file.
package cmd

// CLI is the root command line. Every flag can also come from a
// configuration file or the environment.
type CLI struct {
	Config       string    `help:"Configuration file (json, yaml or toml)" type:"path" env:"PADMAPPER_CONFIG"`
	Log          LogConfig `embed:"" prefix:"log."`
	BindingsFile string    `name:"bindings-file" help:"Bindings file (json, yaml or toml; defaults to the config directory)" type:"path" env:"PADMAPPER_BINDINGS"`

	Run       Run             `cmd:"" default:"withargs" help:"Map the first connected controller to pointer and keyboard output"`
	Bindings  BindingsCommand `cmd:"" help:"Show or edit the binding table"`
	Displays  Displays        `cmd:"" help:"Print the display layout used for pointer clamping"`
	ConfigCmd ConfigCommand   `cmd:"" name:"config" help:"Configuration file helpers"`
	Install   Install         `cmd:"" help:"Install padmapper as a systemd user service (linux)"`
	Uninstall Uninstall       `cmd:"" help:"Remove the systemd user service (linux)"`
}

type LogConfig struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"PADMAPPER_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" type:"path" env:"PADMAPPER_LOG_FILE"`
	RawFile string `help:"Write every output report as hex to this file" type:"path" env:"PADMAPPER_LOG_RAW_FILE"`
}
