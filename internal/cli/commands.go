package cli

import (
	"context"
	"encoding/json"
	"fmt"

	applog "precatorios/internal/log"
	"precatorios/internal/report"
)

// Execute implements the go-flags Commander interface for OptionsCommand.
func (c *OptionsCommand) Execute(args []string) error {
	source, err := c.source()
	if err != nil {
		return err
	}

	engine, err := session(context.Background(), c.globals, c.env, source)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(c.env.out)
		enc.SetIndent("", "  ")
		return enc.Encode(engine.Options())
	}
	return report.WriteOptions(c.env.out, source, engine.Options())
}

// Execute implements the go-flags Commander interface for FiltrarCommand.
func (c *FiltrarCommand) Execute(args []string) error {
	source, err := c.source()
	if err != nil {
		return err
	}

	engine, err := session(context.Background(), c.globals, c.env, source)
	if err != nil {
		return err
	}

	logger := commandLogger(c.globals, c.env)
	for d, values := range c.selection() {
		logger.Debug("Selecting values", applog.FieldOperation, applog.OpFilter,
			applog.FieldDimension, d.String(), "values", values)
		engine.SetSelection(d, values)
	}
	engine.ApplyFilters()

	snap, ok := engine.Snapshot()
	if !ok {
		return fmt.Errorf("filter %s: no result", source)
	}
	r := report.Report{Source: source, Snapshot: snap}

	if c.XLSX != "" {
		if err := report.SaveXLSX(c.XLSX, r); err != nil {
			return err
		}
		logger.Debug("Report exported", applog.FieldOperation, applog.OpExport, applog.FieldFile, c.XLSX)
	}

	if c.JSON {
		enc := json.NewEncoder(c.env.out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return report.WriteText(c.env.out, r, c.Limit)
}
