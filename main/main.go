package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/phil-mansfield/lfpcalc/io"
	"github.com/phil-mansfield/lfpcalc/lfp"
)

func main() {
	var (
		potential, sample string
		exampleConfig     string
	)
	vars := map[string]*string{
		"Potential":     &potential,
		"Sample":        &sample,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&potential, "Potential", "",
		"Configuration file for [Potential] mode.",
	)
	flag.StringVar(
		&sample, "Sample", "",
		"Configuration file for [Sample] mode.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. Accepted arguments are 'Potential', "+
			"'Slice', 'Contact', and 'Sample'.",
	)

	flag.Parse()

	modeName, err := modeFlag(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Potential":
		wrap, err := io.ReadPotentialConfig(potential)
		if err != nil {
			log.Fatal(err.Error())
		}
		logFile := setupLog(&wrap.Potential.SharedConfig)
		defer closeLog(logFile)

		potentialMain(wrap)
	case "Sample":
		wrap, err := io.ReadSampleConfig(sample)
		if err != nil {
			log.Fatal(err.Error())
		}
		logFile := setupLog(&wrap.Sample.SharedConfig)
		defer closeLog(logFile)

		sampleMain(&wrap.Sample)
	case "ExampleConfig":
		switch exampleConfig {
		case "Potential":
			fmt.Println(io.ExamplePotentialFile)
		case "Slice":
			fmt.Println(io.ExampleSliceFile)
		case "Contact":
			fmt.Println(io.ExampleContactFile)
		case "Sample":
			fmt.Println(io.ExampleSampleFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Potential', 'Slice', 'Contact', and " +
					"'Sample'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// modeFlag returns the name of the one mode flag in vars which was given a
// value. Flags are checked in alphabetical order so errors are stable.
func modeFlag(vars map[string]*string) (string, error) {
	flags := make([]string, 0, len(vars))
	for name := range vars {
		flags = append(flags, name)
	}
	sort.Strings(flags)

	mode := ""
	for _, name := range flags {
		if *vars[name] == "" {
			continue
		} else if mode != "" {
			return "", fmt.Errorf(
				"Both -%s and -%s were given, but lfpcalc runs one mode "+
					"at a time.", mode, name,
			)
		}
		mode = name
	}

	if mode == "" {
		return "", fmt.Errorf(
			"No mode given. Use one of -%s.", strings.Join(flags, ", -"),
		)
	}
	return mode, nil
}

func setupLog(con *io.SharedConfig) *os.File {
	if !con.ValidLogFile() {
		return nil
	}
	f, err := os.Create(con.LogFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.SetOutput(f)
	return f
}

func closeLog(f *os.File) {
	if f == nil {
		return
	}
	if err := f.Close(); err != nil {
		log.Fatal(err.Error())
	}
}

func potentialMain(wrap *io.PotentialWrapper) {
	con := &wrap.Potential
	log.Println("Running Potential main.")

	cell, err := io.ReadGeometry(con.Geometry, con.SectionName)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Read %d compartments from %s", cell.Len(), con.Geometry)

	sigma, err := wrap.Conductivity()
	if err != nil {
		log.Fatal(err.Error())
	}
	contacts, names, err := wrap.Contacts()
	if err != nil {
		log.Fatal(err.Error())
	}
	method, err := lfp.ParseMethod(con.Method)
	if err != nil {
		log.Fatal(err.Error())
	}

	t0 := time.Now()
	e, err := lfp.New(cell, &lfp.Config{
		Sigma:    sigma,
		Contacts: contacts,
		Method:   method,
		Source:   rand.New(rand.NewSource(con.Seed)),
	})
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf(
		"Computed %d x %d coefficients (%s) in %s",
		len(contacts), cell.Len(), method, time.Since(t0),
	)

	cs, err := io.ReadCurrents(con.Currents, cell.Len())
	if err != nil {
		log.Fatal(err.Error())
	}
	ps, err := e.Apply(cs)
	if err != nil {
		log.Fatal(err.Error())
	}

	log.Printf("Writing to %s", con.Output)
	if err := io.WritePotentials(con.Output, names, ps); err != nil {
		log.Fatal(err.Error())
	}

	if con.ValidPlot() {
		log.Printf("Plotting to %s", con.Plot)
		plotPotentials(con.Plot, names, ps, method)
	}
}

func sampleMain(con *io.SampleConfig) {
	log.Println("Running Sample main.")

	cell, err := io.ReadGeometry(con.Geometry, con.SectionName)
	if err != nil {
		log.Fatal(err.Error())
	}

	gen := rand.New(rand.NewSource(con.Seed))
	idx, err := cell.RandIdxAreaNorm(
		gen, con.Count, con.ZMin, con.ZMax, con.Section...,
	)
	if err != nil {
		log.Fatal(err.Error())
	}

	log.Printf("Drew %d of %d compartments", len(idx), cell.Len())
	if err := io.WriteIndices(con.Output, cell, idx); err != nil {
		log.Fatal(err.Error())
	}
}
