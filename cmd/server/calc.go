package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gearrange/gearrange/internal/gearing"
	"github.com/gearrange/gearrange/internal/presets"
	"github.com/gearrange/gearrange/internal/report"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

type calcOptions struct {
	name        string
	chainrings  []int
	cogs        []int
	cassette    string
	wheel       string
	diameter    float64
	tyreOffset  float64
	rpm         []float64
	format      string
	presetsFile string
}

func calcCmd() *cobra.Command {
	opts := calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the gear table for one drivetrain",
		Example: `  gearrange calc --chainrings 50,34 --cassette shimano-105-11-28
  gearrange calc --chainrings 40 --cogs 10,12,14,16,18,21,24,28,32,36,42 --wheel 650b-47 --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(opts.presetsFile)
			if err != nil {
				return err
			}
			cfg, err := opts.configuration(catalog)
			if err != nil {
				return err
			}
			return writeCalc(cmd.OutOrStdout(), cfg, opts.format)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "Configuration 1", "Configuration name")
	f.IntSliceVar(&opts.chainrings, "chainrings", []int{40}, "Chainring tooth counts")
	f.IntSliceVar(&opts.cogs, "cogs", nil, "Cog tooth counts (overrides --cassette)")
	f.StringVar(&opts.cassette, "cassette", "", "Cassette preset slug")
	f.StringVar(&opts.wheel, "wheel", "", "Wheel preset slug (overrides --diameter and --tyre-offset)")
	f.Float64Var(&opts.diameter, "diameter", 700, "Rim diameter in mm")
	f.Float64Var(&opts.tyreOffset, "tyre-offset", 20, "Tyre offset in mm")
	f.Float64SliceVar(&opts.rpm, "rpm", []float64{85, 95}, "Cadence as low,high rpm; a single value gives a fixed cadence")
	f.StringVar(&opts.format, "format", formatTable, "Output format: table, csv or json")
	f.StringVar(&opts.presetsFile, "presets-file", "", "YAML file with extra presets")

	return cmd
}

func presetsCmd() *cobra.Command {
	var presetsFile string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the cassette and wheel presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(presetsFile)
			if err != nil {
				return err
			}
			return writeCatalog(cmd.OutOrStdout(), catalog)
		},
	}

	cmd.Flags().StringVar(&presetsFile, "presets-file", "", "YAML file with extra presets")
	return cmd
}

func loadCatalog(path string) (presets.Catalog, error) {
	extra, err := presets.LoadFile(path)
	if err != nil {
		return presets.Catalog{}, fmt.Errorf("load presets file: %w", err)
	}
	catalog := presets.Builtin().Merge(extra)
	if err := catalog.Validate(); err != nil {
		return presets.Catalog{}, fmt.Errorf("invalid presets: %w", err)
	}
	return catalog, nil
}

func (o calcOptions) configuration(catalog presets.Catalog) (report.Configuration, error) {
	d := gearing.Drivetrain{
		Chainrings: o.chainrings,
		Cogs:       o.cogs,
		Wheel:      gearing.Wheel{DiameterMm: o.diameter, TyreOffsetMm: o.tyreOffset},
	}

	if len(o.cogs) == 0 && o.cassette != "" {
		cassette, ok := catalog.Cassette(o.cassette)
		if !ok {
			return report.Configuration{}, fmt.Errorf("unknown cassette preset %q", o.cassette)
		}
		d.Cogs = cassette.Cogs
	}

	if o.wheel != "" {
		wheel, ok := catalog.Wheel(o.wheel)
		if !ok {
			return report.Configuration{}, fmt.Errorf("unknown wheel preset %q", o.wheel)
		}
		d.Wheel = wheel.Wheel()
	}

	var cadence gearing.Cadence
	switch len(o.rpm) {
	case 1:
		cadence = gearing.Cadence{LowRPM: o.rpm[0], HighRPM: o.rpm[0]}
	case 2:
		cadence = gearing.Cadence{LowRPM: o.rpm[0], HighRPM: o.rpm[1]}
	default:
		return report.Configuration{}, fmt.Errorf("--rpm takes one or two values, got %d", len(o.rpm))
	}

	return report.NewConfiguration(o.name, d, cadence)
}

func writeCalc(w io.Writer, cfg report.Configuration, format string) error {
	switch format {
	case formatCSV:
		return report.WriteCSV(w, []report.Configuration{cfg})
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newGearsResponse(cfg))
	case formatTable:
		return writeTable(w, report.BuildTable(cfg))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeTable(w io.Writer, table *report.TableData) error {
	fmt.Fprintln(w, table.Title)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	labels := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		labels[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t")+"\t")
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s := table.Summary; s != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Label)
		for _, key := range report.SummaryKeys {
			if v, ok := s.Values[key]; ok {
				fmt.Fprintf(w, "  %-18s %s\n", key, v)
			}
		}
	}
	return nil
}

func writeCatalog(w io.Writer, catalog presets.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASSETTE\tSPEEDS\tRANGE\tNAME")
	for _, c := range catalog.Cassettes {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", c.Slug, c.Speeds(), c.Range(), c.Name)
	}
	fmt.Fprintln(tw, "\t\t\t")
	fmt.Fprintln(tw, "WHEEL\tDIAMETER\tOFFSET\tNAME")
	for _, wh := range catalog.Wheels {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%s\n", wh.Slug, wh.DiameterMm, wh.TyreOffsetMm, wh.Name)
	}
	return tw.Flush()
}
