package io

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/lfpcalc/geom"
	"github.com/phil-mansfield/lfpcalc/lfp"
)

const (
	ExamplePotentialFile = `[Potential]

#######################
# Required Parameters #
#######################

# Geometry file of the cell. Each line is one compartment, starting with the
# soma:
#     x0 y0 z0 x1 y1 z1 diam section
# Lengths are in um and section is an integer label (see SectionName).
Geometry = path/to/cell.txt

# Transmembrane currents. Each line is one time step:
#     t I_0 I_1 ... I_{N-1}
# with t in ms and currents in nA.
Currents = path/to/imem.txt

# Output file. Each line is one time step:
#     t phi_0 phi_1 ... phi_{M-1}
# with potentials in mV, in the order the contacts are listed in the header.
Output = path/to/lfp.txt

# Extracellular conductivity in S/m. Give one value for an isotropic medium
# or three (x, y, z) for an anisotropic one:
# Sigma = 0.3
# Sigma = 0.3
# Sigma = 0.45
Sigma = 0.3

#######################
# Optional Parameters #
#######################

# How compartment currents are placed: pointsource, linesource, or
# soma_as_point. Default is linesource.
# Method = soma_as_point

# A file of contacts, one per line:
#     x y z nx ny nz
# Contacts may also be given as [Contact "name"] sections below. The
# remaining Contact* values apply to every contact in the file.
# Contacts = path/to/contacts.txt
# ContactRadius = 10
# ContactPoints = 100
# ContactShape = circle

# Names of the integer section labels in the geometry file: the first
# SectionName names label 0, the second names label 1, and so on.
# SectionName = soma
# SectionName = dend

# Seed of the random number generator used to place points on averaged
# contacts.
# Seed = 0

# If set, a plot of every contact's potential is saved here.
# Plot = path/to/lfp.png

# LogFile = log.out`

	ExampleSliceFile = `[Slice]
# Adding a Slice section to a Potential file models a slice of tissue lying
# on a planar electrode array (e.g. an MEA) and covered by saline. The
# Potential file's Sigma is ignored.

# Conductivities of the tissue, the saline, and the electrode plane in S/m.
SigmaT = 0.3
SigmaS = 1.5
SigmaG = 0

# Slice thickness in um and the z coordinate of the electrode plane.
H = 200
# ZShift = 0

#######################
# Optional Parameters #
#######################

# Number of image orders. Default is 20.
# Steps = 20

# Cells which stick out of the slice are compressed in z about their soma by
# this factor before giving up.
# SqueezeFactor = 0.5`

	ExampleContactFile = `[Contact "e1"]
# Location of the contact in um.
X = 100
Y = 0
Z = 500

#######################
# Optional Parameters #
#######################

# If Points is set, the potential is averaged over that many random points
# on a flat contact with the given radius, shape (circle or square), and
# surface normal.
# Radius = 10
# NX = 1
# NY = 0
# NZ = 0
# Points = 100
# Shape = circle`

	ExampleSampleFile = `[Sample]

#######################
# Required Parameters #
#######################

# Geometry file of the cell, in the same format as for Potential.
Geometry = path/to/cell.txt

# Output file. Each line is one drawn compartment:
#     idx x y z
# where x, y, z is the compartment's midpoint.
Output = path/to/idx.txt

# Number of compartments to draw. Compartments are drawn with probability
# proportional to their membrane area, with replacement.
Count = 1000

#######################
# Optional Parameters #
#######################

# Only draw compartments whose midpoints lie in [ZMin, ZMax].
# ZMin = -100
# ZMax = 400

# Only draw from these sections. Default is all sections.
# Section = dend
# Section = apic

# SectionName = soma
# SectionName = dend
# SectionName = apic

# Seed = 0
# LogFile = log.out`
)

type SharedConfig struct {
	// Required
	Geometry, Output string

	// Optional
	SectionName []string
	Seed        int64
	LogFile     string
}

func (con *SharedConfig) ValidGeometry() bool {
	return con.Geometry != ""
}
func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}

type PotentialConfig struct {
	SharedConfig

	// Required
	Currents string
	Sigma    []float64

	// Optional
	Method        string
	Contacts      string
	ContactRadius float64
	ContactPoints int
	ContactShape  string
	Plot          string
}

func (con *PotentialConfig) ValidCurrents() bool {
	return con.Currents != ""
}
func (con *PotentialConfig) ValidMethod() bool {
	_, err := lfp.ParseMethod(con.Method)
	return err == nil
}
func (con *PotentialConfig) ValidContacts() bool {
	return con.Contacts != ""
}
func (con *PotentialConfig) ValidPlot() bool {
	return con.Plot != ""
}

// ContactTemplate returns the contact which every entry of the Contacts file
// is based on.
func (con *PotentialConfig) ContactTemplate() (lfp.Contact, error) {
	shape, err := lfp.ParseShape(con.ContactShape)
	if err != nil {
		return lfp.Contact{}, err
	}
	return lfp.Contact{
		Radius: con.ContactRadius, Points: con.ContactPoints, Shape: shape,
	}, nil
}

type SliceConfig struct {
	SigmaT, SigmaS, SigmaG float64
	H, ZShift              float64

	// Optional
	Steps         int
	SqueezeFactor float64
}

// unsetSteps marks a Steps value which the file didn't set.
const unsetSteps = math.MinInt32

// DefaultSliceConfig returns a SliceConfig with every value unset. Values
// which the file leaves unset are read as zero.
func DefaultSliceConfig() SliceConfig {
	nan := math.NaN()
	return SliceConfig{
		SigmaT: nan, SigmaS: nan, SigmaG: nan, H: nan, ZShift: nan,
		Steps: unsetSteps, SqueezeFactor: nan,
	}
}

func (con *SliceConfig) floats() []*float64 {
	return []*float64{
		&con.SigmaT, &con.SigmaS, &con.SigmaG,
		&con.H, &con.ZShift, &con.SqueezeFactor,
	}
}

// Used returns true if the [Slice] section set at least one value, even if
// that value is zero. A section header with no values counts as absent.
// con must start from DefaultSliceConfig.
func (con *SliceConfig) Used() bool {
	if con.Steps != unsetSteps {
		return true
	}
	for _, x := range con.floats() {
		if !math.IsNaN(*x) {
			return true
		}
	}
	return false
}

func (con *SliceConfig) Layered() lfp.Layered {
	set := *con
	for _, x := range set.floats() {
		if math.IsNaN(*x) {
			*x = 0
		}
	}
	if set.Steps == unsetSteps {
		set.Steps = 0
	}

	return lfp.Layered{
		SigmaT: set.SigmaT, SigmaS: set.SigmaS, SigmaG: set.SigmaG,
		H: set.H, ZShift: set.ZShift,
		Steps: set.Steps, SqueezeFactor: set.SqueezeFactor,
	}
}

type ContactConfig struct {
	// Required
	X, Y, Z float64

	// Optional
	Radius     float64
	NX, NY, NZ float64
	Points     int
	Shape      string
	Name       string
}

func (c *ContactConfig) CheckInit(name string) error {
	c.Name = name
	for _, x := range []float64{c.X, c.Y, c.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("Contact '%s' has an invalid position.", name)
		}
	}

	if c.Points == 0 {
		return nil
	}

	if c.Points < 2 {
		return fmt.Errorf(
			"Contact '%s' must average over at least 2 points, not %d.",
			name, c.Points,
		)
	} else if c.Radius <= 0 {
		return fmt.Errorf(
			"Need to specify a positive Radius for Contact '%s'.", name,
		)
	} else if c.NX == 0 && c.NY == 0 && c.NZ == 0 {
		return fmt.Errorf(
			"Need to specify a surface normal (NX, NY, NZ) for Contact '%s'.",
			name,
		)
	}
	if _, err := lfp.ParseShape(c.Shape); err != nil {
		return fmt.Errorf("Contact '%s' has unknown Shape '%s'.", name, c.Shape)
	}

	return nil
}

func (c *ContactConfig) Contact() lfp.Contact {
	shape, _ := lfp.ParseShape(c.Shape)
	return lfp.Contact{
		Pos:    geom.Vec{c.X, c.Y, c.Z},
		Radius: c.Radius,
		Normal: geom.Vec{c.NX, c.NY, c.NZ},
		Points: c.Points,
		Shape:  shape,
	}
}

type PotentialWrapper struct {
	Potential PotentialConfig
	Slice     SliceConfig
	Contact   map[string]*ContactConfig
}

func DefaultPotentialWrapper() *PotentialWrapper {
	con := PotentialConfig{}
	con.Method = lfp.LineSource.String()
	con.ContactShape = "circle"
	return &PotentialWrapper{Potential: con, Slice: DefaultSliceConfig()}
}

// Conductivity returns the medium described by the file: the Slice section
// if one was given and Sigma otherwise.
func (wrap *PotentialWrapper) Conductivity() (lfp.Conductivity, error) {
	if wrap.Slice.Used() {
		return wrap.Slice.Layered(), nil
	}
	return lfp.ConductivityFromSlice(wrap.Potential.Sigma)
}

// Contacts returns the contacts given by [Contact] sections, sorted by name,
// followed by the contacts in the Contacts file. names[j] is the name of
// contacts[j]: file contacts are named by their line.
func (wrap *PotentialWrapper) Contacts() (
	contacts []lfp.Contact, names []string, err error,
) {
	for name := range wrap.Contact {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := wrap.Contact[name]
		if err := c.CheckInit(name); err != nil {
			return nil, nil, err
		}
		contacts = append(contacts, c.Contact())
	}

	if wrap.Potential.ValidContacts() {
		tmpl, err := wrap.Potential.ContactTemplate()
		if err != nil {
			return nil, nil, err
		}
		fromFile, err := ReadContacts(wrap.Potential.Contacts, tmpl)
		if err != nil {
			return nil, nil, err
		}
		for j := range fromFile {
			names = append(names, fmt.Sprintf("%s:%d", wrap.Potential.Contacts, j))
		}
		contacts = append(contacts, fromFile...)
	}

	if len(contacts) == 0 {
		return nil, nil, fmt.Errorf(
			"No contacts given. Use [Contact] sections or 'Contacts'.",
		)
	}
	return contacts, names, nil
}

// ReadPotentialConfig reads and validates a Potential configuration file.
func ReadPotentialConfig(fname string) (*PotentialWrapper, error) {
	wrap := DefaultPotentialWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	return wrap, wrap.check()
}

func (wrap *PotentialWrapper) check() error {
	con := &wrap.Potential
	if !con.ValidGeometry() {
		return fmt.Errorf("Invalid/non-existent 'Geometry' value.")
	} else if !con.ValidCurrents() {
		return fmt.Errorf("Invalid/non-existent 'Currents' value.")
	} else if !con.ValidOutput() {
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	} else if !con.ValidMethod() {
		return fmt.Errorf("Invalid 'Method' value, '%s'.", con.Method)
	} else if !wrap.Slice.Used() && len(con.Sigma) == 0 {
		return fmt.Errorf("Need to specify 'Sigma' or a [Slice] section.")
	}
	return nil
}

type SampleConfig struct {
	SharedConfig

	// Required
	Count int

	// Optional
	ZMin, ZMax float64
	Section    []string
}

func (con *SampleConfig) ValidCount() bool {
	return con.Count > 0
}
func (con *SampleConfig) ValidZRange() bool {
	return con.ZMin <= con.ZMax
}

type SampleWrapper struct {
	Sample SampleConfig
}

func DefaultSampleWrapper() *SampleWrapper {
	con := SampleConfig{}
	con.ZMin = -math.MaxFloat64
	con.ZMax = +math.MaxFloat64
	return &SampleWrapper{con}
}

// ReadSampleConfig reads and validates a Sample configuration file.
func ReadSampleConfig(fname string) (*SampleWrapper, error) {
	wrap := DefaultSampleWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	return wrap, wrap.check()
}

func (wrap *SampleWrapper) check() error {
	con := &wrap.Sample
	if !con.ValidGeometry() {
		return fmt.Errorf("Invalid/non-existent 'Geometry' value.")
	} else if !con.ValidOutput() {
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	} else if !con.ValidCount() {
		return fmt.Errorf("Invalid/non-existent 'Count' value.")
	} else if !con.ValidZRange() {
		return fmt.Errorf(
			"'ZMin' (%g) is larger than 'ZMax' (%g).", con.ZMin, con.ZMax,
		)
	}
	return nil
}
