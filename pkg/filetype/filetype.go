// Package filetype classifies byte streams and file names into the
// formats the toolchain knows about. Classification is magic-byte
// first; extensions are only a hint for sources that have a name.
package filetype

import "bytes"

// FileType identifies a recognized file format. Most values are
// detection-only: they can be named by Sniff but have no decoder.
type FileType uint8

const (
	Unknown FileType = iota

	// compression containers
	Gzip
	Bzip
	Lzma
	Zstd

	// decodable formats
	Bam
	Fasta
	Fastq
	Sam
	InficonHapsite

	// detection-only formats
	Facs
	Scf
	Ztr
	AgilentChemstationFid
	AgilentChemstationMs
	AgilentChemstationMwd
	AgilentChemstationUv
	AgilentDad
	BrukerBaf
	BrukerMsms
	ThermoRaw
	ThermoCf
	ThermoDxf
	WatersAutospec
	NetCdf
	MzXml
	Las
	Png
	Hdf5

	// delimited text (named via parser names only, never sniffed)
	CSV
	TSV
)

var names = map[FileType]string{
	Unknown:               "unknown",
	Gzip:                  "gzip",
	Bzip:                  "bzip2",
	Lzma:                  "lzma",
	Zstd:                  "zstd",
	Bam:                   "BAM",
	Fasta:                 "FASTA",
	Fastq:                 "FASTQ",
	Sam:                   "SAM",
	InficonHapsite:        "Inficon Hapsite",
	Facs:                  "FACS",
	Scf:                   "SCF",
	Ztr:                   "ZTR",
	AgilentChemstationFid: "Agilent ChemStation FID",
	AgilentChemstationMs:  "Agilent ChemStation MS",
	AgilentChemstationMwd: "Agilent ChemStation MWD",
	AgilentChemstationUv:  "Agilent ChemStation UV",
	AgilentDad:            "Agilent DAD",
	BrukerBaf:             "Bruker BAF",
	BrukerMsms:            "Bruker MSMS",
	ThermoRaw:             "Thermo RAW",
	ThermoCf:              "Thermo CF",
	ThermoDxf:             "Thermo DXF",
	WatersAutospec:        "Waters Autospec",
	NetCdf:                "NetCDF",
	MzXml:                 "mzXML",
	Las:                   "LAS",
	Png:                   "PNG",
	Hdf5:                  "HDF5",
	CSV:                   "CSV",
	TSV:                   "TSV",
}

func (t FileType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "unknown"
}

// IsCompression reports whether t is a compression container.
func (t FileType) IsCompression() bool {
	switch t {
	case Gzip, Bzip, Lzma, Zstd:
		return true
	}
	return false
}

type magic struct {
	pattern []byte
	ftype   FileType
}

// Longer patterns win over shorter ones, so the tables are probed
// longest-first.
var magic8 = []magic{
	{[]byte("FCS2.0  "), Facs},
	{[]byte("FCS3.0  "), Facs},
	{[]byte("FCS3.1  "), Facs},
	{[]byte("~VERSION"), Las},
	{[]byte("~Version"), Las},
	{[]byte("\x89PNG\r\n\x1A\n"), Png},
	{[]byte("\x89HDF\r\n\x1A\n"), Hdf5},
	{[]byte("\x04\x03\x02\x01SPAH"), InficonHapsite},
	{[]byte("\xAEZTR\x0D\x0A\x1A\x0A"), Ztr},
	{[]byte{0x01, 0xA1, 'F', 0x00, 'i', 0x00, 'n', 0x00}, ThermoRaw},
}

var magic4 = []magic{
	{[]byte("BAM\x01"), Bam},
	{[]byte("@HD\t"), Sam},
	{[]byte("@SQ\t"), Sam},
	{[]byte(".scf"), Scf},
	{[]byte{0x02, 0x38, 0x31, 0x00}, AgilentChemstationFid},
	{[]byte{0x01, 0x32, 0x00, 0x00}, AgilentChemstationMs},
	{[]byte{0x02, 0x33, 0x30, 0x00}, AgilentChemstationMwd},
	{[]byte{0x03, 0x31, 0x33, 0x31}, AgilentChemstationUv},
	{[]byte{0x28, 0xB5, 0x2F, 0xFD}, Zstd},
}

var magic2 = []magic{
	{[]byte{0x0F, 0x8B}, Gzip},
	{[]byte{0x1F, 0x8B}, Gzip},
	{[]byte{0x42, 0x5A}, Bzip},
	{[]byte{0xFD, 0x37}, Lzma},
	{[]byte{0x24, 0x00}, BrukerBaf},
	{[]byte{0x43, 0x44}, NetCdf},
}

// thermoIsoMarker distinguishes CF from DXF files sharing the same
// leading bytes; it sits at offset 52 in CF files. The marker is only
// consulted once 78 bytes are visible; shorter prefixes are DXF.
var thermoIsoMarker = []byte("C\x00I\x00s\x00o\x00G\x00C\x00")

// FromMagic classifies the leading bytes of a stream. Patterns match
// whenever the prefix is at least as long as the pattern.
func FromMagic(prefix []byte) FileType {
	if len(prefix) >= 8 {
		for _, m := range magic8 {
			if bytes.Equal(prefix[:8], m.pattern) {
				return m.ftype
			}
		}
	}
	if len(prefix) >= 4 {
		for _, m := range magic4 {
			if bytes.Equal(prefix[:4], m.pattern) {
				return m.ftype
			}
		}
		if (prefix[0] == 0xFF && prefix[1] == 0xFF) &&
			(prefix[2] == 0x05 || prefix[2] == 0x06) && prefix[3] == 0x00 {
			if len(prefix) >= 78 && bytes.Equal(prefix[52:64], thermoIsoMarker) {
				return ThermoCf
			}
			return ThermoDxf
		}
	}
	if len(prefix) >= 2 {
		for _, m := range magic2 {
			if bytes.Equal(prefix[:2], m.pattern) {
				return m.ftype
			}
		}
	}
	if len(prefix) >= 1 {
		switch prefix[0] {
		case '>':
			return Fasta
		case '@':
			return Fastq
		}
	}
	return Unknown
}

var extensions = map[string][]FileType{
	"gz":    {Gzip},
	"gzip":  {Gzip},
	"bz":    {Bzip},
	"bz2":   {Bzip},
	"bzip":  {Bzip},
	"xz":    {Lzma},
	"zstd":  {Zstd},
	"ch":    {AgilentChemstationFid, AgilentChemstationMwd},
	"ms":    {AgilentChemstationMs},
	"uv":    {AgilentChemstationUv},
	"bam":   {Bam},
	"baf":   {BrukerBaf},
	"ami":   {BrukerMsms},
	"fcs":   {Facs},
	"lmd":   {Facs},
	"fa":    {Fasta},
	"faa":   {Fasta},
	"fasta": {Fasta},
	"fna":   {Fasta},
	"faq":   {Fastq},
	"fastq": {Fastq},
	"fq":    {Fastq},
	"hdf":   {Hdf5},
	"raw":   {ThermoRaw},
	"mzxml": {MzXml},
	"cdf":   {NetCdf},
	"png":   {Png},
	"hps":   {InficonHapsite},
	"sam":   {Sam},
	"scf":   {Scf},
	"cf":    {ThermoCf},
	"dxf":   {ThermoDxf},
	"idx":   {WatersAutospec},
	"ztr":   {Ztr},
}

// FromExtension returns the candidate types for a file extension
// (without the dot). Ambiguous or unknown extensions return nil.
func FromExtension(ext string) []FileType {
	return extensions[ext]
}

var parserNames = map[FileType]string{
	Bam:                   "bam",
	Fasta:                 "fasta",
	Fastq:                 "fastq",
	Sam:                   "sam",
	InficonHapsite:        "inficon",
	Facs:                  "fcs",
	Png:                   "png",
	ThermoCf:              "thermo_cf",
	ThermoDxf:             "thermo_dxf",
	AgilentChemstationFid: "chemstation_fid",
	AgilentChemstationMs:  "chemstation_ms",
	AgilentChemstationMwd: "chemstation_mwd",
	AgilentChemstationUv:  "chemstation_uv",
	CSV:                   "csv",
	TSV:                   "tsv",
}

// ParserName returns the registry name for t, or "" when t has no
// nameable parser.
func (t FileType) ParserName() string { return parserNames[t] }

// FromParserName is the inverse of ParserName.
func FromParserName(name string) FileType {
	for t, n := range parserNames {
		if n == name {
			return t
		}
	}
	return Unknown
}

// Delimiter returns the field delimiter for delimited-text types.
func (t FileType) Delimiter() (byte, bool) {
	switch t {
	case CSV:
		return ',', true
	case TSV:
		return '\t', true
	}
	return 0, false
}
