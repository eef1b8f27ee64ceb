package cli

import (
	"precatorios/internal/core"
)

// GlobalFlags are accepted by every consulta subcommand.
type GlobalFlags struct {
	Server  string `long:"server" description:"Base URL of the dataset service" default:"http://localhost:4000"`
	Verbose bool   `long:"verbose" short:"v" description:"Log requests and timings to stderr"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// SourceFlag selects the spreadsheet to load.
type SourceFlag struct {
	Source string `long:"source" short:"s" description:"Dataset to load" choice:"ropv" choice:"precatorios" default:"ropv"`
}

func (f SourceFlag) source() (core.Source, error) {
	return core.ParseSource(f.Source)
}

// OptionsCommand prints every dimension's option set for the full dataset.
type OptionsCommand struct {
	SourceFlag
	JSON bool `long:"json" description:"Output in JSON format"`

	globals *GlobalFlags
	env     *env
}

// FiltrarCommand applies one filter pass and prints the report.
type FiltrarCommand struct {
	SourceFlag
	Assuntos  []string `long:"assuntos" description:"Keep records with this Assuntos (repeatable)"`
	Categoria []string `long:"categoria" description:"Keep records with this Categoria (repeatable)"`
	Comarca   []string `long:"comarca" description:"Keep records with this Comarca (repeatable)"`
	Devedor   []string `long:"devedor" description:"Keep records with this Devedor (repeatable)"`
	Tribunal  []string `long:"tribunal" description:"Keep records with this Tribunal (repeatable)"`
	Ano       []string `long:"ano" description:"Keep records of this year (repeatable)"`
	JSON      bool     `long:"json" description:"Output the snapshot as JSON"`
	XLSX      string   `long:"xlsx" description:"Also export the filtered records to this .xlsx file" value-name:"FILE"`
	Limit     int      `long:"limit" description:"Print at most N records (0 prints all)" default:"50"`

	globals *GlobalFlags
	env     *env
}

// selection maps the per-dimension flags onto dimensions.
func (c *FiltrarCommand) selection() map[core.Dimension][]string {
	return map[core.Dimension][]string{
		core.Assuntos:  c.Assuntos,
		core.Categoria: c.Categoria,
		core.Comarca:   c.Comarca,
		core.Devedor:   c.Devedor,
		core.Tribunal:  c.Tribunal,
		core.Ano:       c.Ano,
	}
}
